package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/hanifwid/go-shop-api/internal/kafka"
	"github.com/hanifwid/go-shop-api/internal/orders"
	"github.com/hanifwid/go-shop-api/internal/redisx"
)

// Publisher is what the handler needs from the Kafka producer. Satisfied by
// *kafkax.Producer; tests plug in a recorder.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Svc      *orders.Service
	Producer Publisher
	Redis    *redis.Client // optional; nil disables the read cache
	Service  string
}

type orderDTO struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	ProductID   int64     `json:"productId"`
	Quantity    int       `json:"quantity"`
	OrderStatus string    `json:"orderStatus"`
	CreatedAt   time.Time `json:"createdAt"`
	UserName    string    `json:"userName"`
	ProductName string    `json:"productName"`
}

type placeOrderReq struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  *int  `json:"quantity"`
}

func toOrderDTO(d orders.OrderDetail) orderDTO {
	return orderDTO{
		ID:          d.ID,
		UserID:      d.UserID,
		ProductID:   d.ProductID,
		Quantity:    d.Quantity,
		OrderStatus: string(d.Status),
		CreatedAt:   d.CreatedAt,
		UserName:    d.UserName,
		ProductName: d.ProductName,
	}
}

func toOrderDTOs(ds []orders.OrderDetail) []orderDTO {
	out := make([]orderDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, toOrderDTO(d))
	}
	return out
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.place)
		r.Get("/user/{userID}", h.listByUser)
		r.Get("/status/{status}", h.listByStatus)
		r.Get("/user/{userID}/status/{status}", h.listByUserAndStatus)
		r.Get("/{id}", h.get)
		r.Patch("/{id}/status", h.updateStatus)
		r.Delete("/{id}", h.delete)
	})
}

func (h *OrdersHandler) reqCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

func (h *OrdersHandler) place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.UserID == 0 || req.ProductID == 0 {
		writeBadRequest(w, "userId and productId are required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		writeBadRequest(w, "quantity must be at least 1")
		return
	}

	ctx, cancel := h.reqCtx(r)
	defer cancel()

	det, err := h.Svc.Place(ctx, req.UserID, req.ProductID, quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheSet(ctx, det)
	h.publish(r, orders.EventOrderPlaced, det.ID, orders.OrderPlacedPayload{
		OrderID:   det.ID,
		UserID:    det.UserID,
		ProductID: det.ProductID,
		Quantity:  det.Quantity,
	})

	writeSuccess(w, http.StatusCreated, "Order created successfully", toOrderDTO(det))
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	// cache first, DB as the source of truth
	if dto, ok := h.cacheGet(ctx, id); ok {
		writeSuccess(w, http.StatusOK, "Order retrieved successfully", dto)
		return
	}

	det, err := h.Svc.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheSet(ctx, det)
	writeSuccess(w, http.StatusOK, "Order retrieved successfully", toOrderDTO(det))
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, orders.Filter{}, "Orders retrieved successfully")
}

func (h *OrdersHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}
	h.respondList(w, r, orders.Filter{UserID: &userID}, "User orders retrieved successfully")
}

func (h *OrdersHandler) listByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := orders.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	h.respondList(w, r, orders.Filter{Status: &status}, "Orders retrieved successfully")
}

func (h *OrdersHandler) listByUserAndStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}
	status, err := orders.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	h.respondList(w, r, orders.Filter{UserID: &userID, Status: &status}, "Orders retrieved successfully")
}

func (h *OrdersHandler) respondList(w http.ResponseWriter, r *http.Request, f orders.Filter, msg string) {
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	ds, err := h.Svc.List(ctx, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, msg, toOrderDTOs(ds))
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	status, err := orders.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ctx, cancel := h.reqCtx(r)
	defer cancel()

	ch, err := h.Svc.UpdateStatus(ctx, id, status)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheDrop(ctx, id)
	h.publish(r, orders.EventOrderStatusChanged, id, orders.OrderStatusChangedPayload{
		OrderID:   id,
		From:      ch.From,
		To:        ch.Detail.Status,
		Restocked: ch.Restocked,
	})

	writeSuccess(w, http.StatusOK, "Order status updated successfully", toOrderDTO(ch.Detail))
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid order id")
		return
	}
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	del, err := h.Svc.Delete(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheDrop(ctx, id)
	h.publish(r, orders.EventOrderDeleted, id, orders.OrderDeletedPayload{
		OrderID:   del.Order.ID,
		Restocked: del.Restocked,
	})

	writeSuccess(w, http.StatusOK, "Order deleted successfully", nil)
}

func (h *OrdersHandler) publish(r *http.Request, eventType string, orderID int64, payload any) {
	if h.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: fmt.Sprintf("%d", orderID),
		Payload:       kafkax.MustMarshal(payload),
	}
	h.Producer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) cacheGet(ctx context.Context, id int64) (json.RawMessage, bool) {
	if h.Redis == nil {
		return nil, false
	}
	key := fmt.Sprintf(redisx.KeyOrder, id)
	s, err := h.Redis.Get(ctx, key).Result()
	if err != nil || s == "" {
		return nil, false
	}
	return json.RawMessage(s), true
}

func (h *OrdersHandler) cacheSet(ctx context.Context, det orders.OrderDetail) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrder, det.ID)
	b, err := json.Marshal(toOrderDTO(det))
	if err != nil {
		return
	}
	_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderCache).Err()
}

func (h *OrdersHandler) cacheDrop(ctx context.Context, id int64) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrder, id)).Err()
}
