package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/Alturino/fooddelivery/internal/constants"
)

var Tracer = otel.Tracer(constants.AppMain)
