// Package stream fans published messages out to channel and websocket
// subscribers.
package stream

import (
	"context"
	"encoding/json"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/solanashuffle/splclient/logger"
)

const bufferSize = 50

type Stream struct {
	publishCh chan []byte
	subCh     chan chan []byte
	wsSubCh   chan *WebsocketWrapper
	unsubCh   chan chan []byte
	wsUnsubCh chan *WebsocketWrapper

	log zerolog.Logger
}

func New() *Stream {
	return &Stream{
		publishCh: make(chan []byte, bufferSize),
		subCh:     make(chan chan []byte, bufferSize),
		wsSubCh:   make(chan *WebsocketWrapper, bufferSize),
		unsubCh:   make(chan chan []byte, bufferSize),
		wsUnsubCh: make(chan *WebsocketWrapper, bufferSize),
		log:       logger.Logger.With().Str("component", "stream").Logger(),
	}
}

// Start delivers messages until ctx is done. Slow channel subscribers miss
// messages instead of blocking the stream; a websocket that fails a write
// is dropped and closed.
func (s *Stream) Start(ctx context.Context) {
	subs := map[chan []byte]struct{}{}
	wsSubs := map[*WebsocketWrapper]struct{}{}
	for {
		select {
		case <-ctx.Done():
			for w := range wsSubs {
				_ = w.WriteSafe(websocket.CloseMessage, []byte{})
			}
			return
		case msgCh := <-s.subCh:
			subs[msgCh] = struct{}{}
		case w := <-s.wsSubCh:
			wsSubs[w] = struct{}{}
		case msgCh := <-s.unsubCh:
			delete(subs, msgCh)
		case w := <-s.wsUnsubCh:
			delete(wsSubs, w)
		case msg := <-s.publishCh:
			for w := range wsSubs {
				if err := w.WriteSafe(websocket.TextMessage, msg); err != nil {
					s.log.Debug().Err(err).Msg("websocket write")

					delete(wsSubs, w)
					_ = w.WriteSafe(websocket.CloseMessage, []byte{})
					_ = w.Conn.Close()
				}
			}
			for msgCh := range subs {
				select {
				case msgCh <- msg:
				default:
				}
			}
		}
	}
}

func (s *Stream) Subscribe() chan []byte {
	msgCh := make(chan []byte, bufferSize)
	s.subCh <- msgCh
	return msgCh
}

func (s *Stream) SubscribeWebsocket(w *WebsocketWrapper) {
	s.wsSubCh <- w
}

func (s *Stream) Unsubscribe(msgCh chan []byte) {
	s.unsubCh <- msgCh
}

func (s *Stream) UnsubscribeWebsocket(w *WebsocketWrapper) {
	s.wsUnsubCh <- w
}

func (s *Stream) Publish(msg []byte) {
	s.publishCh <- msg
}

func (s *Stream) PublishJSON(msg interface{}) {
	j, err := json.Marshal(msg)
	if err != nil {
		s.log.Warn().Err(err).Msg("marshal message")
		return
	}

	s.Publish(j)
}
