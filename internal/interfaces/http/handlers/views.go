package handlers

import (
	"math/big"
	"time"

	"github.com/volatiletech/null/v8"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/pkg/utils"
)

// Views render amounts as decimal strings so clients never lose precision.

type GigView struct {
	ID           uint64    `json:"id"`
	Provider     string    `json:"provider"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	DeliveryTime string    `json:"deliveryTime"`
	Requirements string    `json:"requirements"`
	Tags         []string  `json:"tags"`
	Price        string    `json:"price"`
	Token        string    `json:"token"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type OrderView struct {
	ID              uint64    `json:"id"`
	GigID           uint64    `json:"gigId"`
	Client          string    `json:"client"`
	Provider        string    `json:"provider"`
	Token           string    `json:"token"`
	Amount          string    `json:"amount"`
	PaidAmount      string    `json:"paidAmount"`
	Payer           string    `json:"payer,omitempty"`
	FeePercent      uint8     `json:"feePercent"`
	IsPaid          bool      `json:"isPaid"`
	IsCompleted     bool      `json:"isCompleted"`
	PaymentApproved bool      `json:"paymentApproved"`
	PaymentReleased bool      `json:"paymentReleased"`
	ReleasedVia     string    `json:"releasedVia,omitempty"`
	ProviderAmount  string    `json:"providerAmount,omitempty"`
	FeeAmount       string    `json:"feeAmount,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	PaidAt          null.Time `json:"paidAt"`
	CompletedAt     null.Time `json:"completedAt"`
	ReleasedAt      null.Time `json:"releasedAt"`
}

type SettlementView struct {
	OrderID        uint64 `json:"orderId"`
	Token          string `json:"token"`
	Provider       string `json:"provider"`
	ProviderAmount string `json:"providerAmount"`
	FeeRecipient   string `json:"feeRecipient"`
	FeeAmount      string `json:"feeAmount"`
	Method         string `json:"method"`
}

type EventView struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	GigID     uint64            `json:"gigId,omitempty"`
	OrderID   uint64            `json:"orderId,omitempty"`
	Actor     string            `json:"actor"`
	Amount    string            `json:"amount"`
	Token     string            `json:"token"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type AccountView struct {
	Address string `json:"address"`
	Token   string `json:"token"`
	Balance string `json:"balance"`
	Frozen  bool   `json:"frozen"`
}

type DepositView struct {
	TxHash      string    `json:"txHash"`
	Depositor   string    `json:"depositor"`
	Token       string    `json:"token"`
	Amount      string    `json:"amount"`
	BlockNumber uint64    `json:"blockNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

type WithdrawalView struct {
	ID        string    `json:"id"`
	Account   string    `json:"account"`
	Token     string    `json:"token"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

type StatsView struct {
	Owner              string `json:"owner"`
	EscrowAddress      string `json:"escrowAddress"`
	TotalGigs          uint64 `json:"totalGigs"`
	TotalOrders        uint64 `json:"totalOrders"`
	PlatformFeePercent uint8  `json:"platformFeePercent"`
	Paused             bool   `json:"paused"`
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func optionalAmount(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func newGigView(g *entities.Gig) GigView {
	tags := g.Tags
	if tags == nil {
		tags = []string{}
	}
	return GigView{
		ID:           g.ID,
		Provider:     g.Provider.Hex(),
		Title:        g.Title,
		Description:  g.Description,
		Category:     g.Category,
		DeliveryTime: g.DeliveryTime,
		Requirements: g.Requirements,
		Tags:         tags,
		Price:        amountString(g.Price),
		Token:        g.Token.Hex(),
		IsActive:     g.IsActive,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

func newGigViews(gigs []*entities.Gig) []GigView {
	views := make([]GigView, 0, len(gigs))
	for _, g := range gigs {
		views = append(views, newGigView(g))
	}
	return views
}

// newOrderView omits the deliverable, which has its own endpoint.
func newOrderView(o *entities.Order) OrderView {
	v := OrderView{
		ID:              o.ID,
		GigID:           o.GigID,
		Client:          o.Client.Hex(),
		Provider:        o.Provider.Hex(),
		Token:           o.Token.Hex(),
		Amount:          amountString(o.Amount),
		PaidAmount:      amountString(o.PaidAmount),
		FeePercent:      o.FeePercent,
		IsPaid:          o.IsPaid,
		IsCompleted:     o.IsCompleted,
		PaymentApproved: o.PaymentApproved,
		PaymentReleased: o.PaymentReleased,
		ReleasedVia:     string(o.ReleasedVia),
		ProviderAmount:  optionalAmount(o.ProviderAmount),
		FeeAmount:       optionalAmount(o.FeeAmount),
		CreatedAt:       o.CreatedAt,
		PaidAt:          o.PaidAt,
		CompletedAt:     o.CompletedAt,
		ReleasedAt:      o.ReleasedAt,
	}
	if o.IsPaid {
		v.Payer = o.Payer.Hex()
	}
	return v
}

func newOrderViews(orders []*entities.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	return views
}

func newSettlementView(s *entities.Settlement) SettlementView {
	return SettlementView{
		OrderID:        s.OrderID,
		Token:          s.Token.Hex(),
		Provider:       s.Provider.Hex(),
		ProviderAmount: amountString(s.ProviderAmount),
		FeeRecipient:   s.FeeRecipient.Hex(),
		FeeAmount:      amountString(s.FeeAmount),
		Method:         string(s.Method),
	}
}

func newEventViews(events []*entities.MarketEvent) []EventView {
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, EventView{
			ID:        e.ID.String(),
			Type:      string(e.Type),
			GigID:     e.GigID,
			OrderID:   e.OrderID,
			Actor:     e.Actor.Hex(),
			Amount:    e.Amount,
			Token:     e.Token.Hex(),
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	return views
}

func newAccountView(a *entities.Account) AccountView {
	return AccountView{
		Address: a.Address.Hex(),
		Token:   a.Token.Hex(),
		Balance: amountString(a.Balance),
		Frozen:  a.Frozen,
	}
}

func newDepositView(d *entities.Deposit) DepositView {
	return DepositView{
		TxHash:      d.TxHash.Hex(),
		Depositor:   d.Depositor.Hex(),
		Token:       d.Token.Hex(),
		Amount:      amountString(d.Amount),
		BlockNumber: d.BlockNumber,
		CreatedAt:   d.CreatedAt,
	}
}

func newWithdrawalView(w *entities.Withdrawal) WithdrawalView {
	return WithdrawalView{
		ID:        w.ID.String(),
		Account:   w.Account.Hex(),
		Token:     w.Token.Hex(),
		Amount:    amountString(w.Amount),
		CreatedAt: w.CreatedAt,
	}
}

func newStatsView(s *entities.MarketStats) StatsView {
	return StatsView{
		Owner:              s.Owner.Hex(),
		EscrowAddress:      s.EscrowAddress.Hex(),
		TotalGigs:          s.TotalGigs,
		TotalOrders:        s.TotalOrders,
		PlatformFeePercent: s.PlatformFeePercent,
		Paused:             s.Paused,
	}
}

func pageMeta(total int64, p utils.PaginationParams) utils.PaginationMeta {
	return utils.CalculateMeta(total, p.Page, p.Limit)
}
