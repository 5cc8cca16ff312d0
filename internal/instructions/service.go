package instructions

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/internal/suppliers"
	"github.com/tradekart/tradekart-backend/pkg/config"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
)

// Channel selects how the UPI handoff is presented. QR is the default; app
// swaps the code for a tappable deep link.
type Channel string

const (
	ChannelQR  Channel = "qr"
	ChannelApp Channel = "app"
)

// ParseChannel maps the raw query value onto a channel, defaulting to QR.
func ParseChannel(raw string) Channel {
	if raw == string(ChannelApp) {
		return ChannelApp
	}
	return ChannelQR
}

type groupLoader interface {
	FindGroupByIDAndBuyer(ctx context.Context, groupID, buyerID uuid.UUID) (*models.CheckoutGroup, error)
}

type bankLoader interface {
	FindBankProfiles(ctx context.Context, supplierIDs []int64) (map[int64]*models.BankProfile, error)
}

// OrderInstruction is one order's payment sheet.
type OrderInstruction struct {
	OrderNumber      string                 `json:"order_number"`
	SupplierID       int64                  `json:"supplier_id"`
	SupplierName     string                 `json:"supplier_name"`
	AmountPaise      int64                  `json:"amount_paise"`
	PaymentReference string                 `json:"payment_reference"`
	Bank             *suppliers.BankDetails `json:"bank"`
	UPIURI           string                 `json:"upi_uri,omitempty"`
	DeepLink         string                 `json:"deep_link,omitempty"`
	QRPath           string                 `json:"qr_path,omitempty"`
	MarkedPaid       bool                   `json:"marked_paid"`
	Settled          bool                   `json:"settled"`
}

// Presentation is the full instruction sheet for a checkout group.
type Presentation struct {
	GroupID     uuid.UUID          `json:"group_id"`
	PaymentType enums.PaymentType  `json:"payment_type"`
	Channel     Channel            `json:"channel"`
	Orders      []OrderInstruction `json:"orders"`
	MarkedCount int                `json:"marked_count"`
	TotalCount  int                `json:"total_count"`
	Banner      string             `json:"banner"`
}

// Service renders payment instructions for offline-rail checkout groups.
type Service interface {
	Present(ctx context.Context, buyerID, groupID uuid.UUID, channel Channel) (*Presentation, error)
	QR(ctx context.Context, buyerID, groupID uuid.UUID, orderNumber string) ([]byte, error)
	MarkPaid(ctx context.Context, buyerID, groupID uuid.UUID, orderNumber string) error
	UnmarkPaid(ctx context.Context, buyerID, groupID uuid.UUID, orderNumber string) error
}

type service struct {
	groups     groupLoader
	banks      bankLoader
	flags      *FlagTracker
	payeeLabel string
}

// NewService wires the instruction presenter.
func NewService(groups groupLoader, banks bankLoader, flags *FlagTracker, cfg config.CheckoutConfig) (Service, error) {
	if groups == nil {
		return nil, fmt.Errorf("checkout group loader required")
	}
	if banks == nil {
		return nil, fmt.Errorf("bank profile loader required")
	}
	if flags == nil {
		return nil, fmt.Errorf("flag tracker required")
	}
	if cfg.InstructionPayeeLabel == "" {
		return nil, fmt.Errorf("payee label required")
	}
	return &service{groups: groups, banks: banks, flags: flags, payeeLabel: cfg.InstructionPayeeLabel}, nil
}

func (s *service) Present(ctx context.Context, buyerID, groupID uuid.UUID, channel Channel) (*Presentation, error) {
	group, err := s.offlineGroup(ctx, buyerID, groupID)
	if err != nil {
		return nil, err
	}

	supplierIDs := make([]int64, 0, len(group.Orders))
	orderNumbers := make([]string, 0, len(group.Orders))
	for _, order := range group.Orders {
		supplierIDs = append(supplierIDs, order.SupplierID)
		orderNumbers = append(orderNumbers, order.OrderNumber)
	}

	profiles, err := s.banks.FindBankProfiles(ctx, supplierIDs)
	if err != nil {
		return nil, err
	}
	marked, err := s.flags.MarkedSet(ctx, groupID.String(), orderNumbers)
	if err != nil {
		return nil, err
	}

	presentation := &Presentation{
		GroupID:     group.ID,
		PaymentType: group.PaymentType,
		Channel:     channel,
		TotalCount:  len(group.Orders),
	}
	for _, order := range group.Orders {
		profile := profiles[order.SupplierID]
		instruction := OrderInstruction{
			OrderNumber:  order.OrderNumber,
			SupplierID:   order.SupplierID,
			SupplierName: order.SupplierName,
			AmountPaise:  order.BalanceDuePaise,
			// Buyers quote the order number in the transfer note so
			// suppliers can reconcile incoming payments.
			PaymentReference: order.OrderNumber,
			Bank: suppliers.ProjectBankDetails(&models.Supplier{
				ID:   order.SupplierID,
				Name: order.SupplierName,
			}, profile),
			MarkedPaid: marked[order.OrderNumber],
			Settled:    order.PaymentIntent != nil && order.PaymentIntent.Status == enums.PaymentStatusPaid,
		}
		if uri := s.upiURIFor(order, profile); uri != "" {
			instruction.UPIURI = uri
			switch channel {
			case ChannelApp:
				instruction.DeepLink = uri
			default:
				instruction.QRPath = fmt.Sprintf("/api/v1/checkout/%s/instructions/%s/qr", group.ID, order.OrderNumber)
			}
		}
		if instruction.MarkedPaid {
			presentation.MarkedCount++
		}
		presentation.Orders = append(presentation.Orders, instruction)
	}
	presentation.Banner = fmt.Sprintf("marked %d of %d", presentation.MarkedCount, presentation.TotalCount)
	return presentation, nil
}

func (s *service) QR(ctx context.Context, buyerID, groupID uuid.UUID, orderNumber string) ([]byte, error) {
	group, err := s.offlineGroup(ctx, buyerID, groupID)
	if err != nil {
		return nil, err
	}
	order, err := findOrder(group, orderNumber)
	if err != nil {
		return nil, err
	}
	profiles, err := s.banks.FindBankProfiles(ctx, []int64{order.SupplierID})
	if err != nil {
		return nil, err
	}
	uri := s.upiURIFor(*order, profiles[order.SupplierID])
	if uri == "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "supplier has no upi id")
	}
	return EncodeQR(uri)
}

func (s *service) MarkPaid(ctx context.Context, buyerID, groupID uuid.UUID, orderNumber string) error {
	if err := s.checkOrder(ctx, buyerID, groupID, orderNumber); err != nil {
		return err
	}
	return s.flags.Mark(ctx, groupID.String(), orderNumber)
}

func (s *service) UnmarkPaid(ctx context.Context, buyerID, groupID uuid.UUID, orderNumber string) error {
	if err := s.checkOrder(ctx, buyerID, groupID, orderNumber); err != nil {
		return err
	}
	return s.flags.Unmark(ctx, groupID.String(), orderNumber)
}

func (s *service) checkOrder(ctx context.Context, buyerID, groupID uuid.UUID, orderNumber string) error {
	group, err := s.offlineGroup(ctx, buyerID, groupID)
	if err != nil {
		return err
	}
	_, err = findOrder(group, orderNumber)
	return err
}

func (s *service) offlineGroup(ctx context.Context, buyerID, groupID uuid.UUID) (*models.CheckoutGroup, error) {
	if buyerID == uuid.Nil || groupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer and group ids required")
	}
	group, err := s.groups.FindGroupByIDAndBuyer(ctx, groupID, buyerID)
	if err != nil {
		return nil, err
	}
	if !group.PaymentType.IsOfflineRail() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("%s checkout has no payment instructions", group.PaymentType))
	}
	return group, nil
}

func (s *service) upiURIFor(order models.SupplierOrder, profile *models.BankProfile) string {
	if profile == nil || profile.UPIID == nil || *profile.UPIID == "" {
		return ""
	}
	payee := order.SupplierName
	if payee == "" {
		payee = s.payeeLabel
	}
	return BuildUPIURI(*profile.UPIID, payee, order.BalanceDuePaise, order.OrderNumber)
}

func findOrder(group *models.CheckoutGroup, orderNumber string) (*models.SupplierOrder, error) {
	for i := range group.Orders {
		if group.Orders[i].OrderNumber == orderNumber {
			return &group.Orders[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not in this checkout group")
}
