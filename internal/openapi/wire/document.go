package wire

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

const (
	TrainPath   = "/push_data"
	PredictPath = "/predict"
)

// Info carries the document metadata.
type Info struct {
	Title            string
	Version          string
	TrainingServer   string
	PredictionServer string
}

// Build assembles and validates an OpenAPI 3 document for the two service
// endpoints.
func Build(ctx context.Context, descriptors []timeline.Descriptor, info Info) (*openapi3.T, error) {
	if len(descriptors) == 0 {
		return nil, timeline.ErrEmptySet
	}
	for idx, descriptor := range descriptors {
		if err := descriptor.Validate(); err != nil {
			return nil, fmt.Errorf("openapi wire: timeline item #%d: %w", idx+1, err)
		}
	}

	values := ValuesSchema(descriptors)

	train := &openapi3.Operation{
		OperationID: "pushData",
		Summary:     "Push one timeline step for training.",
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(values),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Accepted. The body is ignored."),
			}),
		),
	}

	predict := &openapi3.Operation{
		OperationID: "predict",
		Summary:     "Predict the continuation of a timeline step.",
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(values),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Predicted values in descriptor order.").
					WithJSONSchema(values),
			}),
			openapi3.WithStatus(400, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("The service could not predict."),
			}),
		),
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   info.Title,
			Version: info.Version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath(TrainPath, &openapi3.PathItem{Post: train, Servers: servers(info.TrainingServer)}),
			openapi3.WithPath(PredictPath, &openapi3.PathItem{Post: predict, Servers: servers(info.PredictionServer)}),
		),
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi wire: invalid document: %w", err)
	}
	return doc, nil
}

func servers(url string) openapi3.Servers {
	if url == "" {
		return nil
	}
	return openapi3.Servers{{URL: url}}
}
