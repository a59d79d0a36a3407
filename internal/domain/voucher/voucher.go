package voucher

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/pricing"
)

// DateLayout is the wire and storage layout of voucher expiry dates.
const DateLayout = "2006-01-02"

// Rejection reasons returned by Check and Redeem.
var (
	ErrAlreadyUsed = errors.New("voucher já utilizado")
	ErrExpired     = errors.New("voucher expirado")
	ErrNotOwner    = errors.New("voucher não pertence a este usuário")
)

// Voucher is the aggregate root for discount codes.
type Voucher struct {
	id          int64
	code        string
	description string
	percentage  int
	validUntil  *time.Time // calendar date, midnight in the shop's location
	owner       string     // empty for public vouchers
	used        bool
	usedAt      *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewVoucher creates a new voucher. Codes are case-sensitive and only trimmed.
func NewVoucher(code, description string, percentage int, validUntil *time.Time, owner string) (*Voucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("código do voucher é obrigatório")
	}
	if percentage < 0 || percentage > pricing.MaxPercentage {
		return nil, fmt.Errorf("porcentagem deve estar entre 0 e 100")
	}

	now := time.Now().UTC()
	return &Voucher{
		code:        code,
		description: strings.TrimSpace(description),
		percentage:  percentage,
		validUntil:  validUntil,
		owner:       strings.TrimSpace(owner),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Voucher from persistence.
func Reconstruct(id int64, code, description string, percentage int, validUntil *time.Time, owner string, used bool, usedAt *time.Time, createdAt, updatedAt time.Time) *Voucher {
	return &Voucher{
		id: id, code: code, description: description, percentage: percentage,
		validUntil: validUntil, owner: owner, used: used, usedAt: usedAt,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ParseValidity parses an optional YYYY-MM-DD expiry in loc.
func ParseValidity(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("validade inválida %q: use AAAA-MM-DD", s)
	}
	return &t, nil
}

// IsExpired reports whether the local date of now is strictly after the expiry date.
func (v *Voucher) IsExpired(now time.Time) bool {
	if v.validUntil == nil {
		return false
	}
	// compare calendar dates; DATE columns come back as UTC midnight
	exp := *v.validUntil
	expDay := time.Date(exp.Year(), exp.Month(), exp.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.After(expDay)
}

// IsPublic reports whether any user may redeem the voucher.
func (v *Voucher) IsPublic() bool { return v.owner == "" }

// Check reports why user cannot redeem the voucher at now, or nil.
func (v *Voucher) Check(user string, now time.Time) error {
	if v.used {
		return ErrAlreadyUsed
	}
	if v.IsExpired(now) {
		return ErrExpired
	}
	if !v.IsPublic() && v.owner != user {
		return ErrNotOwner
	}
	return nil
}

// Redeem marks the voucher used by user.
func (v *Voucher) Redeem(user string, now time.Time) error {
	if err := v.Check(user, now); err != nil {
		return err
	}
	t := now.UTC()
	v.used = true
	v.usedAt = &t
	v.updatedAt = t
	return nil
}

// Release reverts a redemption.
func (v *Voucher) Release() {
	v.used = false
	v.usedAt = nil
	v.updatedAt = time.Now().UTC()
}

// Update edits the mutable attributes of the voucher.
func (v *Voucher) Update(description string, percentage int, validUntil *time.Time, owner string) error {
	if percentage < 0 || percentage > pricing.MaxPercentage {
		return fmt.Errorf("porcentagem deve estar entre 0 e 100")
	}
	v.description = strings.TrimSpace(description)
	v.percentage = percentage
	v.validUntil = validUntil
	v.owner = strings.TrimSpace(owner)
	v.updatedAt = time.Now().UTC()
	return nil
}

// AssignID is called by the repository once the row has a key.
func (v *Voucher) AssignID(id int64) { v.id = id }

// Getters.
func (v *Voucher) ID() int64              { return v.id }
func (v *Voucher) Code() string           { return v.code }
func (v *Voucher) Description() string    { return v.description }
func (v *Voucher) Percentage() int        { return v.percentage }
func (v *Voucher) ValidUntil() *time.Time { return v.validUntil }
func (v *Voucher) Owner() string          { return v.owner }
func (v *Voucher) Used() bool             { return v.used }
func (v *Voucher) UsedAt() *time.Time     { return v.usedAt }
func (v *Voucher) CreatedAt() time.Time   { return v.createdAt }
func (v *Voucher) UpdatedAt() time.Time   { return v.updatedAt }
