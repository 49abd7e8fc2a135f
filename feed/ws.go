package feed

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades the connection and streams change events for the
// requested collections as JSON frames. One websocket carries one hub
// subscription per requested collection; all of them are released when the
// socket closes. A slow consumer that fills its send buffer is dropped
// rather than allowed to stall the hub.
func WSHandler(hub *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		collections := parseCollections(c.QueryParam("tables"))
		if len(collections) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No watched tables requested"})
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}

		send := make(chan Event, sendBufferSize)
		closed := make(chan struct{})
		var closeOnce sync.Once
		shutdown := func() { closeOnce.Do(func() { close(closed) }) }

		subs := make([]*Subscription, 0, len(collections))
		for _, name := range collections {
			sub := hub.Subscribe(name, func(event Event) {
				select {
				case send <- event:
				case <-closed:
				default:
					// buffer full, drop the consumer
					shutdown()
				}
			})
			subs = append(subs, sub)
		}

		go writeLoop(conn, send, closed)
		readLoop(conn)

		// reader returned: socket is gone, release everything exactly once
		shutdown()
		for _, sub := range subs {
			sub.Unsubscribe()
		}
		conn.Close()
		return nil
	}
}

func parseCollections(tables string) []string {
	if tables == "" {
		return WatchedCollections()
	}
	var names []string
	for _, name := range strings.Split(tables, ",") {
		name = strings.TrimSpace(name)
		if IsWatched(name) {
			names = append(names, name)
		}
	}
	return names
}

func writeLoop(conn *websocket.Conn, send <-chan Event, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("feed: write failed: %v", err)
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		case <-closed:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			conn.Close()
			return
		}
	}
}

func readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
