package realtime

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"story-chat/contract"
	"story-chat/domain/event"
	"story-chat/mocks"
)

func TestFanout_Broadcast(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should deliver every event to every sink, sender included", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		mockRegistry := mocks.NewMockIRegistry(ctrl)
		sinkA := mocks.NewMockEventSink(ctrl)
		sinkB := mocks.NewMockEventSink(ctrl)

		fanout := NewFanout(log, mockRegistry, 10, time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var wg sync.WaitGroup
		wg.Add(2)
		mockRegistry.EXPECT().
			Sinks().
			Return([]contract.EventSink{sinkA, sinkB}).
			Times(1)
		for _, sink := range []*mocks.MockEventSink{sinkA, sinkB} {
			sink.EXPECT().
				Consume(gomock.Any(), event.MessagePosted{User: "alice", Text: "hi", Time: "14:05"}).
				Do(func(context.Context, event.DomainEvent) { wg.Done() }).
				Return(nil).
				Times(1)
		}

		go func() { _ = fanout.Run(ctx) }()
		fanout.Broadcast(event.MessagePosted{User: "alice", Text: "hi", Time: "14:05"})

		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(time.Second):
			req.Fail("sinks were not delivered in time")
		}
	})

	t.Run("should preserve publication order per sink", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		mockRegistry := mocks.NewMockIRegistry(ctrl)

		sink := NewSink(10)
		mockRegistry.EXPECT().Sinks().Return([]contract.EventSink{sink}).Times(3)

		fanout := NewFanout(log, mockRegistry, 10, time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = fanout.Run(ctx) }()

		fanout.Broadcast(event.MessagePosted{Text: "one"})
		fanout.Broadcast(event.MessagePosted{Text: "two"})
		fanout.Broadcast(event.MessagePosted{Text: "three"})

		for _, want := range []string{"one", "two", "three"} {
			select {
			case e := <-sink.Events():
				req.Equal(want, e.(event.MessagePosted).Text)
			case <-time.After(time.Second):
				req.Failf("timeout", "event %q never arrived", want)
			}
		}
	})

	t.Run("should keep delivering when one sink fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		mockRegistry := mocks.NewMockIRegistry(ctrl)
		dead := mocks.NewMockEventSink(ctrl)
		alive := mocks.NewMockEventSink(ctrl)

		fanout := NewFanout(log, mockRegistry, 10, 20*time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		delivered := make(chan struct{})
		mockRegistry.EXPECT().Sinks().Return([]contract.EventSink{dead, alive}).Times(1)
		dead.EXPECT().
			Consume(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ event.DomainEvent) error {
				<-ctx.Done()
				return ctx.Err()
			}).
			Times(1)
		alive.EXPECT().
			Consume(gomock.Any(), gomock.Any()).
			Do(func(context.Context, event.DomainEvent) { close(delivered) }).
			Return(nil).
			Times(1)

		go func() { _ = fanout.Run(ctx) }()
		fanout.Broadcast(event.MessagePosted{Text: "hi"})

		select {
		case <-delivered:
		case <-time.After(time.Second):
			req.Fail("healthy sink was starved by the dead one")
		}
	})

	t.Run("should drop instead of blocking when the bus is full", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRegistry := mocks.NewMockIRegistry(ctrl)

		// Run is never started, so the bus only holds bufferSize events.
		fanout := NewFanout(log, mockRegistry, 1, time.Second)

		done := make(chan struct{})
		go func() {
			fanout.Broadcast(event.MessagePosted{Text: "one"})
			fanout.Broadcast(event.MessagePosted{Text: "two"})
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			require.Fail(t, "Broadcast blocked on a full bus")
		}
	})
}

func TestSink_Consume(t *testing.T) {
	t.Run("should buffer up to capacity then drop silently", func(t *testing.T) {
		req := require.New(t)
		sink := NewSink(2)
		ctx := context.Background()

		req.NoError(sink.Consume(ctx, event.MessagePosted{Text: "one"}))
		req.NoError(sink.Consume(ctx, event.MessagePosted{Text: "two"}))
		req.NoError(sink.Consume(ctx, event.MessagePosted{Text: "dropped"}))

		req.Equal("one", (<-sink.Events()).(event.MessagePosted).Text)
		req.Equal("two", (<-sink.Events()).(event.MessagePosted).Text)
		select {
		case e := <-sink.Events():
			req.Failf("unexpected event", "got %v", e)
		default:
		}
	})
}
