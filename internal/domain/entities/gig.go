package entities

import (
	"math/big"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	domainerrors "hgigs.backend/internal/domain/errors"
)

const (
	MaxTitleLength = 255
	MaxTags        = 20
)

// NativeToken is the token sentinel for payments in the chain's native currency.
var NativeToken = common.Address{}

// Gig is a service offering posted by a provider
type Gig struct {
	ID           uint64         `json:"id"`
	Provider     common.Address `json:"provider"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	DeliveryTime string         `json:"deliveryTime"`
	Requirements string         `json:"requirements"`
	Tags         []string       `json:"tags"`
	Price        *big.Int       `json:"price"`
	Token        common.Address `json:"token"`
	IsActive     bool           `json:"isActive"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// IsNative reports whether the gig is priced in the native currency.
func (g *Gig) IsNative() bool {
	return g.Token == NativeToken
}

// GigInput carries the provider-editable attributes of a gig
type GigInput struct {
	Title        string
	Description  string
	Category     string
	DeliveryTime string
	Requirements string
	Tags         []string
	Price        *big.Int
	Token        common.Address
}

// Validate trims the text fields and checks the gig invariants.
func (in *GigInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.DeliveryTime = strings.TrimSpace(in.DeliveryTime)
	if in.Title == "" {
		return domainerrors.InvalidInput("title is required")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return domainerrors.InvalidInput("title exceeds %d characters", MaxTitleLength)
	}
	if in.Price == nil || in.Price.Sign() <= 0 {
		return domainerrors.InvalidInput("price must be greater than zero")
	}
	if len(in.Tags) > MaxTags {
		return domainerrors.InvalidInput("at most %d tags are allowed", MaxTags)
	}
	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	in.Tags = tags
	return nil
}

// Apply copies validated input onto the gig.
func (g *Gig) Apply(in GigInput) {
	g.Title = in.Title
	g.Description = in.Description
	g.Category = in.Category
	g.DeliveryTime = in.DeliveryTime
	g.Requirements = in.Requirements
	g.Tags = in.Tags
	g.Price = new(big.Int).Set(in.Price)
	g.Token = in.Token
}
