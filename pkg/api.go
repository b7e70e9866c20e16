package solwatch

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// API is the business-logic layer between the web handlers and the
// watch lists / record store. One instance is shared by all handlers.
type API struct {
	store Store
	bus   MessageBus
	lists map[Network]*WatchList
}

func NewAPI(store Store, bus MessageBus, lists map[Network]*WatchList) API {
	return API{store: store, bus: bus, lists: lists}
}

// IngestRequest describes an existing payment link to start watching.
type IngestRequest struct {
	ID         string          `json:"id"`
	Reference  string          `json:"reference"`
	Recipient  string          `json:"recipient"`
	Amount     decimal.Decimal `json:"amount"`
	Network    Network         `json:"network"`
	Expiration int             `json:"expiration"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Watch validates the request and appends it to the matching network's
// watch list. No persistence happens here: the record already exists and
// will be reconciled from the store on the next process start anyway.
func (a API) Watch(req IngestRequest) error {
	if req.ID == "" || req.Reference == "" || req.Recipient == "" || req.Network == "" || !req.Amount.IsPositive() {
		return NewErr(BadRequest, "dados invalidos")
	}
	// a network that is present but not one of ours is a different error
	list, ok := a.lists[req.Network]
	if !ok {
		return NewErr(BadRequest, "network invalida")
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	payment := WatchedPayment{
		ID:             req.ID,
		Reference:      req.Reference,
		Recipient:      req.Recipient,
		ExpectedAmount: req.Amount,
		Network:        req.Network,
		Expiration:     req.Expiration,
		CreatedAt:      createdAt,
	}
	list.Add(payment)
	a.bus.Send(LINK_WATCHED, LinkEvent{
		LinkID:  payment.ID,
		Network: payment.Network,
		Status:  StatusPending,
		Amount:  decimal.Zero,
	}, payment.ID)
	return nil
}

// CreateLinkRequest describes a brand new payment link.
type CreateLinkRequest struct {
	Nickname   string          `json:"nickname"`
	UserID     string          `json:"user_id"`
	AccountID  string          `json:"account_id"`
	Recipient  string          `json:"recipient"`
	Amount     decimal.Decimal `json:"amount"`
	Network    Network         `json:"network"`
	Expiration int             `json:"expiration"`
}

// CreateLink generates a reference and pay URL, persists the record and
// puts it under watch immediately.
func (a API) CreateLink(req CreateLinkRequest) (PaymentLink, error) {
	if req.Recipient == "" || !req.Amount.IsPositive() || req.Expiration < 0 {
		return PaymentLink{}, NewErr(BadRequest, "dados invalidos")
	}
	list, ok := a.lists[req.Network]
	if !ok {
		return PaymentLink{}, NewErr(BadRequest, "network invalida")
	}
	reference, err := NewReference()
	if err != nil {
		return PaymentLink{}, NewErr(UnknownError, "generating reference: %v", err)
	}
	link := PaymentLink{
		ID:             NewLinkID(),
		Nickname:       req.Nickname,
		UserID:         req.UserID,
		AccountID:      req.AccountID,
		Link:           PayLinkURL(req.Recipient, reference, req.Amount),
		Reference:      reference,
		Recipient:      req.Recipient,
		Network:        req.Network,
		ExpectedAmount: req.Amount,
		Status:         StatusCreated,
		CreatedAt:      time.Now(),
		AmountReceived: decimal.Zero,
		Expiration:     req.Expiration,
	}
	if err := a.store.AddLink(link); err != nil {
		return PaymentLink{}, err
	}
	// watched from now on, so promote created -> pending
	if err := a.store.UpdatePending(link.ID); err != nil {
		log.Printf("API: UpdatePending '%s': %v\n", link.ID, err)
	} else {
		link.Status = StatusPending
	}
	list.Add(link.Watched())
	a.bus.Send(LINK_CREATED, LinkEvent{
		LinkID:  link.ID,
		Network: link.Network,
		Status:  link.Status,
		Amount:  decimal.Zero,
	}, link.ID)
	return link, nil
}

// GetLink returns the stored record for a link.
func (a API) GetLink(id string) (PaymentLink, error) {
	return a.store.GetLink(id)
}
