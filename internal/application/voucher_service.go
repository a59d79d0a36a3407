package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/Barbearia-Digital/service-booking/internal/domain/voucher"
	"github.com/Barbearia-Digital/service-booking/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User-facing rejection messages for voucher validation.
const (
	msgVoucherMissing  = "Código do voucher é obrigatório"
	msgVoucherNotFound = "Voucher inválido ou inexistente"
	msgVoucherUsed     = "Voucher já utilizado"
	msgVoucherExpired  = "Voucher expirado"
	msgVoucherNotOwner = "Este voucher pertence a outro usuário"
)

// VoucherRequest holds data to create or edit a voucher.
type VoucherRequest struct {
	Code        string `json:"codigo"`
	Description string `json:"descricao"`
	Percentage  int    `json:"porcentagem"`
	ValidUntil  string `json:"validade"`
	Owner       string `json:"usuario"`
}

// ValidateVoucherRequest holds the code typed by the client.
type ValidateVoucherRequest struct {
	Code string `json:"codigo"`
}

// VoucherDTO is the API representation of a voucher.
type VoucherDTO struct {
	ID          int64     `json:"id"`
	Code        string    `json:"codigo"`
	Description string    `json:"descricao"`
	Percentage  int       `json:"porcentagem"`
	ValidUntil  *string   `json:"validade"`
	Owner       *string   `json:"usuario"`
	Used        bool      `json:"usado"`
	CreatedAt   time.Time `json:"criado_em"`
}

// VoucherSummaryDTO is the voucher part of a successful validation.
type VoucherSummaryDTO struct {
	Code        string `json:"codigo"`
	Description string `json:"descricao"`
	Percentage  int    `json:"porcentagem"`
}

// VoucherValidationDTO is the verdict on a code. Business rejections are a
// valid response with Valid=false, never an error.
type VoucherValidationDTO struct {
	Valid   bool               `json:"valido"`
	Voucher *VoucherSummaryDTO `json:"voucher,omitempty"`
	Error   string             `json:"erro,omitempty"`
}

// VoucherService handles voucher use cases.
type VoucherService struct {
	repo   voucher.VoucherRepository
	loc    *time.Location
	logger *zap.Logger
}

// NewVoucherService creates a new VoucherService. loc decides the calendar day
// used for expiry checks.
func NewVoucherService(repo voucher.VoucherRepository, loc *time.Location, logger *zap.Logger) *VoucherService {
	return &VoucherService{repo: repo, loc: loc, logger: logger}
}

func (s *VoucherService) now() time.Time { return time.Now().In(s.loc) }

// CreateVoucher creates a new voucher (admin only).
func (s *VoucherService) CreateVoucher(ctx context.Context, req VoucherRequest) (*VoucherDTO, error) {
	validUntil, err := voucher.ParseValidity(req.ValidUntil, s.loc)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	v, err := voucher.NewVoucher(req.Code, req.Description, req.Percentage, validUntil, req.Owner)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.repo.Save(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to save voucher: %w", err)
	}

	s.logger.Info("voucher created", zap.String("codigo", v.Code()), zap.Int("porcentagem", v.Percentage()))
	return toVoucherDTO(v), nil
}

// UpdateVoucher edits description, percentage, validity and owner (admin only).
func (s *VoucherService) UpdateVoucher(ctx context.Context, id int64, req VoucherRequest) (*VoucherDTO, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	validUntil, err := voucher.ParseValidity(req.ValidUntil, s.loc)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := v.Update(req.Description, req.Percentage, validUntil, req.Owner); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to update voucher: %w", err)
	}
	return toVoucherDTO(v), nil
}

// DeleteVoucher removes a voucher (admin only).
func (s *VoucherService) DeleteVoucher(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ListVouchers returns every voucher to admins and unused public vouchers to everyone else.
func (s *VoucherService) ListVouchers(ctx context.Context, isAdmin bool) ([]*VoucherDTO, error) {
	var (
		vouchers []*voucher.Voucher
		err      error
	)
	if isAdmin {
		vouchers, err = s.repo.List(ctx)
	} else {
		vouchers, err = s.repo.ListAvailable(ctx, "")
	}
	if err != nil {
		return nil, err
	}
	return s.toDTOs(vouchers, !isAdmin), nil
}

// ListMyVouchers returns the unused public vouchers plus those owned by user.
func (s *VoucherService) ListMyVouchers(ctx context.Context, user string) ([]*VoucherDTO, error) {
	vouchers, err := s.repo.ListAvailable(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(vouchers, true), nil
}

// ValidateVoucher checks whether user may redeem code right now. An empty user
// is an anonymous caller and can only use public vouchers.
func (s *VoucherService) ValidateVoucher(ctx context.Context, user string, req ValidateVoucherRequest) (*VoucherValidationDTO, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		metrics.IncVoucherValidation("missing")
		return &VoucherValidationDTO{Valid: false, Error: msgVoucherMissing}, nil
	}

	v, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncVoucherValidation("not_found")
			return &VoucherValidationDTO{Valid: false, Error: msgVoucherNotFound}, nil
		}
		return nil, err
	}

	if err := v.Check(user, s.now()); err != nil {
		metrics.IncVoucherValidation("rejected")
		return &VoucherValidationDTO{Valid: false, Error: rejectionMessage(err)}, nil
	}

	metrics.IncVoucherValidation("valid")
	return &VoucherValidationDTO{
		Valid: true,
		Voucher: &VoucherSummaryDTO{
			Code:        v.Code(),
			Description: v.Description(),
			Percentage:  v.Percentage(),
		},
	}, nil
}

// UseVoucher redeems code for user outside of a booking.
func (s *VoucherService) UseVoucher(ctx context.Context, user, code string) error {
	v, err := s.Redeemable(ctx, user, code)
	if err != nil {
		return err
	}
	return s.Claim(ctx, user, v)
}

// Redeemable loads code and checks that user may redeem it, mapping rejections
// to validation errors.
func (s *VoucherService) Redeemable(ctx context.Context, user, code string) (*voucher.Voucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.NewValidationError(msgVoucherMissing)
	}
	v, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError(msgVoucherNotFound)
		}
		return nil, err
	}
	if err := v.Check(user, s.now()); err != nil {
		return nil, domain.NewValidationError(rejectionMessage(err))
	}
	return v, nil
}

// Claim marks v redeemed by user. A concurrent redemption yields a conflict.
func (s *VoucherService) Claim(ctx context.Context, user string, v *voucher.Voucher) error {
	if err := v.Redeem(user, s.now()); err != nil {
		return domain.NewValidationError(rejectionMessage(err))
	}
	return s.repo.MarkRedeemed(ctx, v)
}

// Release makes a redeemed code usable again. Missing codes are ignored.
func (s *VoucherService) Release(ctx context.Context, code string) error {
	v, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	v.Release()
	if err := s.repo.Update(ctx, v); err != nil {
		return fmt.Errorf("failed to release voucher %s: %w", code, err)
	}
	s.logger.Info("voucher released", zap.String("codigo", code))
	return nil
}

// IssueLoyaltyVoucher grants user a personal voucher valid for validDays.
func (s *VoucherService) IssueLoyaltyVoucher(ctx context.Context, user string, percentage, validDays int) (*VoucherDTO, error) {
	today := s.now()
	until := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, validDays)
	code := "FIEL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	v, err := voucher.NewVoucher(code, "Voucher fidelidade", percentage, &until, user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to save loyalty voucher: %w", err)
	}

	metrics.IncLoyaltyIssued()
	s.logger.Info("loyalty voucher issued", zap.String("usuario", user), zap.String("codigo", code))
	return toVoucherDTO(v), nil
}

// toDTOs drops expired vouchers from listings meant for clients.
func (s *VoucherService) toDTOs(vouchers []*voucher.Voucher, hideExpired bool) []*VoucherDTO {
	now := s.now()
	dtos := make([]*VoucherDTO, 0, len(vouchers))
	for _, v := range vouchers {
		if hideExpired && v.IsExpired(now) {
			continue
		}
		dtos = append(dtos, toVoucherDTO(v))
	}
	return dtos
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, voucher.ErrAlreadyUsed):
		return msgVoucherUsed
	case errors.Is(err, voucher.ErrExpired):
		return msgVoucherExpired
	case errors.Is(err, voucher.ErrNotOwner):
		return msgVoucherNotOwner
	}
	return err.Error()
}

func toVoucherDTO(v *voucher.Voucher) *VoucherDTO {
	dto := &VoucherDTO{
		ID:          v.ID(),
		Code:        v.Code(),
		Description: v.Description(),
		Percentage:  v.Percentage(),
		Used:        v.Used(),
		CreatedAt:   v.CreatedAt(),
	}
	if d := v.ValidUntil(); d != nil {
		s := d.Format(voucher.DateLayout)
		dto.ValidUntil = &s
	}
	if o := v.Owner(); o != "" {
		dto.Owner = &o
	}
	return dto
}
