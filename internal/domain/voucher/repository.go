package voucher

import "context"

// VoucherRepository defines persistence operations for vouchers.
type VoucherRepository interface {
	Save(ctx context.Context, v *Voucher) error
	Update(ctx context.Context, v *Voucher) error
	// MarkRedeemed persists a redemption only if the stored row is still unused.
	MarkRedeemed(ctx context.Context, v *Voucher) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Voucher, error)
	FindByCode(ctx context.Context, code string) (*Voucher, error)
	List(ctx context.Context) ([]*Voucher, error)
	// ListAvailable returns unused vouchers that are public or owned by user.
	// An empty user returns public vouchers only.
	ListAvailable(ctx context.Context, user string) ([]*Voucher, error)
}
