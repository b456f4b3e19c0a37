package mediator_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiltrace/tanksim/internal/application/mediator"
)

type pingRequest struct{ Name string }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	req := request.(pingRequest)
	return "pong:" + req.Name, nil
}

func TestMediator_Send_DispatchesToRegisteredHandler(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[pingRequest](m, pingHandler{}))

	resp, err := m.Send(context.Background(), pingRequest{Name: "a"})

	require.NoError(t, err)
	assert.Equal(t, "pong:a", resp)
}

func TestMediator_Send_ErrorsWhenNoHandlerRegistered(t *testing.T) {
	m := mediator.New()

	_, err := m.Send(context.Background(), pingRequest{Name: "a"})

	assert.Error(t, err)
}

func TestMediator_RegisterHandler_RejectsDuplicateRegistration(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[pingRequest](m, pingHandler{}))

	err := mediator.RegisterHandler[pingRequest](m, pingHandler{})

	assert.Error(t, err)
}

func TestMediator_Middleware_RunsInRegistrationOrderAroundHandler(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[pingRequest](m, pingHandler{}))

	var trace []string
	m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		trace = append(trace, "first-before")
		resp, err := next(ctx, request)
		trace = append(trace, "first-after")
		return resp, err
	})
	m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		trace = append(trace, "second-before")
		resp, err := next(ctx, request)
		trace = append(trace, "second-after")
		return resp, err
	})

	_, err := m.Send(context.Background(), pingRequest{Name: "x"})

	require.NoError(t, err)
	assert.Equal(t, []string{"first-before", "second-before", "second-after", "first-after"}, trace)
}

func TestMediator_Send_NilRequestErrors(t *testing.T) {
	m := mediator.New()

	_, err := m.Send(context.Background(), nil)

	assert.Error(t, err)
}

func TestMediator_Middleware_CanShortCircuit(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[pingRequest](m, pingHandler{}))

	m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		return nil, fmt.Errorf("blocked")
	})

	_, err := m.Send(context.Background(), pingRequest{Name: "x"})

	assert.EqualError(t, err, "blocked")
}
