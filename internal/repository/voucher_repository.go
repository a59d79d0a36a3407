package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/Barbearia-Digital/service-booking/internal/domain/voucher"
	"gorm.io/gorm"
)

// VoucherModel is the GORM model for the vouchers table.
type VoucherModel struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Code        string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string     `gorm:"type:text"`
	Percentage  int        `gorm:"not null"`
	ValidUntil  *time.Time `gorm:"type:date"`
	Owner       *string    `gorm:"type:varchar(100);index"`
	Used        bool       `gorm:"not null;default:false"`
	UsedAt      *time.Time `gorm:"type:timestamptz"`
	CreatedAt   time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time  `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName sets the table name.
func (VoucherModel) TableName() string { return "vouchers" }

// GormVoucherRepository implements voucher.VoucherRepository using GORM.
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository.
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// Save persists a new voucher.
func (r *GormVoucherRepository) Save(ctx context.Context, v *voucher.Voucher) error {
	model := toVoucherModel(v)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("código de voucher já existe")
		}
		return err
	}
	v.AssignID(model.ID)
	return nil
}

// Update writes every column, so cleared fields are persisted too.
func (r *GormVoucherRepository) Update(ctx context.Context, v *voucher.Voucher) error {
	model := toVoucherModel(v)
	result := r.db.WithContext(ctx).Model(&VoucherModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Voucher", strconv.FormatInt(model.ID, 10))
	}
	return nil
}

// MarkRedeemed flips the used flag only when no concurrent redemption won first.
func (r *GormVoucherRepository) MarkRedeemed(ctx context.Context, v *voucher.Voucher) error {
	result := r.db.WithContext(ctx).Model(&VoucherModel{}).
		Where("id = ? AND used = ?", v.ID(), false).
		Updates(map[string]any{
			"used":       true,
			"used_at":    v.UsedAt(),
			"updated_at": v.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError(voucher.ErrAlreadyUsed.Error())
	}
	return nil
}

// Delete removes a voucher.
func (r *GormVoucherRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&VoucherModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Voucher", strconv.FormatInt(id, 10))
	}
	return nil
}

// FindByID returns a voucher by ID.
func (r *GormVoucherRepository) FindByID(ctx context.Context, id int64) (*voucher.Voucher, error) {
	var model VoucherModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Voucher", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return toVoucherDomain(&model), nil
}

// FindByCode returns a voucher by its exact, case-sensitive code.
func (r *GormVoucherRepository) FindByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	var model VoucherModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Voucher", code)
		}
		return nil, err
	}
	return toVoucherDomain(&model), nil
}

// List returns every voucher, newest first.
func (r *GormVoucherRepository) List(ctx context.Context) ([]*voucher.Voucher, error) {
	var models []VoucherModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toVoucherDomains(models), nil
}

// ListAvailable returns unused vouchers visible to user.
func (r *GormVoucherRepository) ListAvailable(ctx context.Context, user string) ([]*voucher.Voucher, error) {
	q := r.db.WithContext(ctx).Where("used = ?", false)
	if user == "" {
		q = q.Where("owner IS NULL")
	} else {
		q = q.Where("owner IS NULL OR owner = ?", user)
	}

	var models []VoucherModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toVoucherDomains(models), nil
}

func toVoucherModel(v *voucher.Voucher) VoucherModel {
	var owner *string
	if o := v.Owner(); o != "" {
		owner = &o
	}
	return VoucherModel{
		ID:          v.ID(),
		Code:        v.Code(),
		Description: v.Description(),
		Percentage:  v.Percentage(),
		ValidUntil:  v.ValidUntil(),
		Owner:       owner,
		Used:        v.Used(),
		UsedAt:      v.UsedAt(),
		CreatedAt:   v.CreatedAt(),
		UpdatedAt:   v.UpdatedAt(),
	}
}

func toVoucherDomain(m *VoucherModel) *voucher.Voucher {
	owner := ""
	if m.Owner != nil {
		owner = *m.Owner
	}
	return voucher.Reconstruct(
		m.ID, m.Code, m.Description, m.Percentage, m.ValidUntil,
		owner, m.Used, m.UsedAt, m.CreatedAt, m.UpdatedAt,
	)
}

func toVoucherDomains(models []VoucherModel) []*voucher.Voucher {
	out := make([]*voucher.Voucher, len(models))
	for i := range models {
		out[i] = toVoucherDomain(&models[i])
	}
	return out
}
