package v1

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncss/coffeerun/internal/api/middleware"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
)

type stubUsers struct{}

func (stubUsers) GetUser(_ context.Context, id uint) (domain.User, error) {
	return domain.User{ID: id, Name: "ari"}, nil
}

type stubDescriber struct{}

func (stubDescriber) Describe(_ context.Context, e domain.Event) (string, error) {
	return "named 'Campos'", nil
}

func TestFeedHandler_Broadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewFeedHandler(stubDescriber{}, stubUsers{}, timefmt.New(time.UTC), nil)
	go feed.Run(ctx)

	engine := gin.New()
	engine.GET("/feed", func(c *gin.Context) {
		c.Set(middleware.CtxKeyUserID, uint(1))
	}, feed.HandleFeed)

	srv := httptest.NewServer(engine)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/feed", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return feed.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	at := time.Date(2024, 3, 4, 4, 30, 0, 0, time.UTC)
	event := domain.NewEvent(1, domain.ActionCreated, domain.CafeRef{ID: 3}, at)
	event.ID = 9
	event.User = domain.User{ID: 1, Name: "ari"}
	feed.Publish(event)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var got domain.EventJSON
	require.NoError(t, json.Unmarshal(message, &got))
	assert.Equal(t, uint(9), got.ID)
	assert.Equal(t, "ari", got.Person)
	assert.Equal(t, "cafe", got.ObjType)
	assert.Equal(t, uint(3), got.ObjID)
	assert.Equal(t, "2024-03-04 04:30:00", got.Time)
	assert.Equal(t, "named 'Campos'", got.Description)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return feed.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestFeedHandler_PublishDoesNotBlock(t *testing.T) {
	feed := NewFeedHandler(stubDescriber{}, stubUsers{}, timefmt.New(time.UTC), nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < feedBacklog*2; i++ {
			feed.Publish(domain.Event{ID: uint(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}
