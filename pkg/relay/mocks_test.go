package relay

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gatewaynetwork/bridge-relay/pkg/db"
	"github.com/gatewaynetwork/bridge-relay/pkg/ledger"
	"github.com/gatewaynetwork/bridge-relay/pkg/wallet"
)

// MockLedgerClient is a mock implementation of LedgerClient
type MockLedgerClient struct {
	HeightFunc  func(ctx context.Context) (int64, error)
	BlockAtFunc func(ctx context.Context, height int64) (*ledger.Block, error)
}

func (m *MockLedgerClient) Height(ctx context.Context) (int64, error) {
	if m.HeightFunc != nil {
		return m.HeightFunc(ctx)
	}
	return 0, nil
}

func (m *MockLedgerClient) BlockAt(ctx context.Context, height int64) (*ledger.Block, error) {
	if m.BlockAtFunc != nil {
		return m.BlockAtFunc(ctx, height)
	}
	return &ledger.Block{Height: height}, nil
}

// MockWalletClient is a mock implementation of WalletClient
type MockWalletClient struct {
	ValidateAddressFunc     func(ctx context.Context, addr string) (*wallet.AddressValidation, error)
	ZValidateAddressFunc    func(ctx context.Context, addr string) (*wallet.AddressValidation, error)
	UnlockWalletFunc        func(ctx context.Context, passphrase string, seconds int64) error
	LockWalletFunc          func(ctx context.Context) error
	SendToAddressFunc       func(ctx context.Context, addr string, amount decimal.Decimal) (string, error)
	ZSendManyFunc           func(ctx context.Context, fromAddr string, recipients []wallet.Recipient) (string, error)
	ZGetOperationResultFunc func(ctx context.Context, opIDs []string) ([]wallet.OperationResult, error)

	UnlockCalls int
	LockCalls   int
	SendCalls   int
	PollCalls   int
}

func (m *MockWalletClient) ValidateAddress(ctx context.Context, addr string) (*wallet.AddressValidation, error) {
	if m.ValidateAddressFunc != nil {
		return m.ValidateAddressFunc(ctx, addr)
	}
	return &wallet.AddressValidation{IsValid: true, Address: addr}, nil
}

func (m *MockWalletClient) ZValidateAddress(ctx context.Context, addr string) (*wallet.AddressValidation, error) {
	if m.ZValidateAddressFunc != nil {
		return m.ZValidateAddressFunc(ctx, addr)
	}
	return &wallet.AddressValidation{IsValid: false, Address: addr}, nil
}

func (m *MockWalletClient) UnlockWallet(ctx context.Context, passphrase string, seconds int64) error {
	m.UnlockCalls++
	if m.UnlockWalletFunc != nil {
		return m.UnlockWalletFunc(ctx, passphrase, seconds)
	}
	return nil
}

func (m *MockWalletClient) LockWallet(ctx context.Context) error {
	m.LockCalls++
	if m.LockWalletFunc != nil {
		return m.LockWalletFunc(ctx)
	}
	return nil
}

func (m *MockWalletClient) SendToAddress(ctx context.Context, addr string, amount decimal.Decimal) (string, error) {
	m.SendCalls++
	if m.SendToAddressFunc != nil {
		return m.SendToAddressFunc(ctx, addr, amount)
	}
	return "tx-transparent", nil
}

func (m *MockWalletClient) ZSendMany(ctx context.Context, fromAddr string, recipients []wallet.Recipient) (string, error) {
	if m.ZSendManyFunc != nil {
		return m.ZSendManyFunc(ctx, fromAddr, recipients)
	}
	return "opid-1", nil
}

func (m *MockWalletClient) ZGetOperationResult(ctx context.Context, opIDs []string) ([]wallet.OperationResult, error) {
	m.PollCalls++
	if m.ZGetOperationResultFunc != nil {
		return m.ZGetOperationResultFunc(ctx, opIDs)
	}
	return nil, nil
}

// MockStore is a mock implementation of CursorStore, SettlementStore and FaultStore
type MockStore struct {
	GetCursorFunc         func(ctx context.Context, chain string) (int64, error)
	SetCursorFunc         func(ctx context.Context, chain string, height int64) error
	SettlementExistsFunc  func(ctx context.Context, sourceTxID string) (bool, error)
	CreateSettlementFunc  func(ctx context.Context, settlement *db.Settlement) error
	CreateErrorRecordFunc func(ctx context.Context, record *db.ErrorRecord) error

	Settlements  []*db.Settlement
	ErrorRecords []*db.ErrorRecord
}

func (m *MockStore) GetCursor(ctx context.Context, chain string) (int64, error) {
	if m.GetCursorFunc != nil {
		return m.GetCursorFunc(ctx, chain)
	}
	return 0, nil
}

func (m *MockStore) SetCursor(ctx context.Context, chain string, height int64) error {
	if m.SetCursorFunc != nil {
		return m.SetCursorFunc(ctx, chain, height)
	}
	return nil
}

func (m *MockStore) SettlementExists(ctx context.Context, sourceTxID string) (bool, error) {
	if m.SettlementExistsFunc != nil {
		return m.SettlementExistsFunc(ctx, sourceTxID)
	}
	return false, nil
}

func (m *MockStore) CreateSettlement(ctx context.Context, settlement *db.Settlement) error {
	if m.CreateSettlementFunc != nil {
		return m.CreateSettlementFunc(ctx, settlement)
	}
	m.Settlements = append(m.Settlements, settlement)
	return nil
}

func (m *MockStore) CreateErrorRecord(ctx context.Context, record *db.ErrorRecord) error {
	if m.CreateErrorRecordFunc != nil {
		return m.CreateErrorRecordFunc(ctx, record)
	}
	m.ErrorRecords = append(m.ErrorRecords, record)
	return nil
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	Settled  []string
	Shielded []bool
}

func (m *MockNotifier) NotifySettled(txID string, shielded bool) {
	m.Settled = append(m.Settled, txID)
	m.Shielded = append(m.Shielded, shielded)
}
