package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"boutique/internal/models"
)

const wsPingEvery = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type cartMessage struct {
	Type   string            `json:"type"`
	Change string            `json:"change,omitempty"`
	Items  []models.CartLine `json:"items"`
	Total  decimal.Decimal   `json:"total"`
	Count  int               `json:"count"`
}

func (h *Handler) cartMessage(ctx context.Context, id gocql.UUID, change string) (cartMessage, error) {
	lines, err := h.shop.Cart(ctx, id)
	if err != nil {
		return cartMessage{}, err
	}
	total := decimal.Zero
	count := 0
	for _, l := range lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}
	return cartMessage{Type: "cart_updated", Change: change, Items: lines, Total: total, Count: count}, nil
}

// GET /cart/ws pushes the resolved cart every time it changes.
func (h *Handler) CartWebSocket(c *gin.Context) {
	if h.carts == nil {
		c.AbortWithStatus(http.StatusNotImplemented)
		return
	}
	id := userID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// the client never sends anything useful; reading only notices when it goes away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	changes := h.carts.Subscribe(ctx, id)

	msg, err := h.cartMessage(ctx, id, "")
	if err != nil {
		log.Printf("❌ cart %s: %v", id, err)
		return
	}
	msg.Type = "connected"
	if err := conn.WriteJSON(msg); err != nil {
		return
	}

	ping := time.NewTicker(wsPingEvery)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			msg, err := h.cartMessage(ctx, id, change)
			if err != nil {
				log.Printf("❌ cart %s: %v", id, err)
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
