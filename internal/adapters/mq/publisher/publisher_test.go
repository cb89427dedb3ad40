package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/birdhunt/internal/domain/model"
)

func TestKafkaPublisher(t *testing.T) {
	Convey("Given a publisher over a mock producer", t, func() {
		producer := mocks.NewSyncProducer(t, NewProducerConfig())
		p := NewWithProducer(producer, WithTopic("test.sightings"))
		event := model.SightingEvent{ID: "e1", User: "alice", Bird: "Great Horned Owl", Points: 25, Week: 1, Year: 2026}

		Convey("It sends the event as JSON", func() {
			producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
				var got model.SightingEvent
				if err := json.Unmarshal(val, &got); err != nil {
					return err
				}
				if got.User != "alice" || got.Points != 25 {
					return fmt.Errorf("unexpected payload %+v", got)
				}
				return nil
			})

			So(p.Notify(context.Background(), event), ShouldBeNil)
			So(p.Topic(), ShouldEqual, "test.sightings")
			So(p.Name(), ShouldEqual, "kafka")
			So(p.Close(), ShouldBeNil)
		})

		Convey("A broker failure is returned", func() {
			producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

			err := p.Notify(context.Background(), event)
			So(errors.Is(err, sarama.ErrOutOfBrokers), ShouldBeTrue)
			So(p.Close(), ShouldBeNil)
		})

		Convey("A canceled context skips the send", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			So(p.Notify(ctx, event), ShouldEqual, context.Canceled)
			So(p.Close(), ShouldBeNil)
		})
	})

	Convey("New without brokers fails", t, func() {
		_, err := New(nil)
		So(err, ShouldEqual, ErrNoBrokers)
	})

	Convey("The default topic is used without WithTopic", t, func() {
		producer := mocks.NewSyncProducer(t, nil)
		p := NewWithProducer(producer)
		So(p.Topic(), ShouldEqual, DefaultTopic)
		So(p.Close(), ShouldBeNil)
	})
}
