package request

// MaxItemIds bounds one add request. It must match the max tag below.
const MaxItemIds = 100

type AddItems struct {
	ItemIds []int64 `validate:"required,max=100,dive,gt=0" json:"itemIds"`
}
