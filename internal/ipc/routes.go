package ipc

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/pkg/errors"

	"chronicle-builder/internal/bridge"
)

// InvokeInput carries the command name and its JSON argument object.
type InvokeInput struct {
	Command string `path:"command" doc:"Command name" example:"greet"`
	RawBody []byte `contentType:"application/json" required:"false"`
}

// InvokeData is the response payload of a successful invocation.
type InvokeData struct {
	ID      string `json:"id" doc:"Invocation id"`
	Command string `json:"command" doc:"Command name" example:"greet"`
	Result  any    `json:"result" doc:"Value returned by the command"`
}

type InvokeOutput struct {
	Body InvokeData
}

// EventData is one event pushed to the front-end over the event stream.
type EventData struct {
	ID      string    `json:"id" doc:"Event id"`
	Name    string    `json:"name" doc:"Event name" example:"menu-save-story"`
	Payload any       `json:"payload,omitempty" doc:"Event payload"`
	At      time.Time `json:"at" doc:"Emission time"`
}

type CommandsOutput struct {
	Body struct {
		Commands []string `json:"commands" doc:"Registered command names"`
	}
}

// Register wires the invoke routes into api.
func Register(api huma.API, b *bridge.Bridge) {
	huma.Register(api, huma.Operation{
		OperationID: "invoke-command",
		Method:      http.MethodPost,
		Path:        "/invoke/{command}",
		Summary:     "Invoke a native command",
	}, func(ctx context.Context, input *InvokeInput) (*InvokeOutput, error) {
		res, err := b.Invoke(ctx, input.Command, input.RawBody)
		if err != nil {
			return nil, toHTTPError(err)
		}
		return &InvokeOutput{Body: InvokeData{
			ID:      res.ID.String(),
			Command: res.Command,
			Result:  res.Value,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-commands",
		Method:      http.MethodGet,
		Path:        "/commands",
		Summary:     "List registered commands",
	}, func(context.Context, *struct{}) (*CommandsOutput, error) {
		out := &CommandsOutput{}
		out.Body.Commands = b.Commands()
		return out, nil
	})

	sse.Register(api, huma.Operation{
		OperationID: "stream-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "Stream events emitted by the native side",
	}, map[string]any{
		"event": EventData{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		events, stop := b.Listen()
		defer stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				err := send.Data(EventData{
					ID:      ev.ID.String(),
					Name:    ev.Name,
					Payload: ev.Payload,
					At:      ev.At,
				})
				if err != nil {
					return
				}
			}
		}
	})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, bridge.ErrUnknownCommand):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, bridge.ErrInvalidArgs):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error500InternalServerError("command failed", err)
	}
}
