// Package memory はPostgresなしで動かすためのインメモリ実装。
// ローカル起動とテストで使う。
package memory

import (
	"sync"
	"time"

	"storefront/internal/domain/model"
)

// Storeは全テーブルを1つのロックで守る。
// WithinTx の間はロックを握ったままにするので、トランザクションは直列に実行される。
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	seq         int64
	rowSeq      map[string]int64
	products    map[string]model.Product
	cartItems   map[string]model.CartItem
	orders      map[string]model.Order
	orderItems  map[string]model.OrderItem
	auditLogs   []model.AuditLog
	nextAuditID int64
}

func NewStore() *Store {
	return &Store{
		now:        time.Now,
		rowSeq:     map[string]int64{},
		products:   map[string]model.Product{},
		cartItems:  map[string]model.CartItem{},
		orders:     map[string]model.Order{},
		orderItems: map[string]model.OrderItem{},
	}
}

// テスト用に時計を差し替える
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

func (s *Store) CartItems() *CartItemRepository {
	return &CartItemRepository{s: s}
}

func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{s: s}
}

func (s *Store) OrderItems() *OrderItemRepository {
	return &OrderItemRepository{s: s}
}

func (s *Store) AuditLogs() *AuditLogRepository {
	return &AuditLogRepository{s: s}
}

func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

// lockedがtrueならWithinTx内（ロック取得済み）
func (s *Store) guard(locked bool) func() {
	if locked {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) touch(id string) int64 {
	if seq, ok := s.rowSeq[id]; ok {
		return seq
	}
	s.seq++
	s.rowSeq[id] = s.seq
	return s.seq
}

type snapshot struct {
	seq         int64
	rowSeq      map[string]int64
	products    map[string]model.Product
	cartItems   map[string]model.CartItem
	orders      map[string]model.Order
	orderItems  map[string]model.OrderItem
	auditLogs   []model.AuditLog
	nextAuditID int64
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		seq:         s.seq,
		rowSeq:      cloneMap(s.rowSeq),
		products:    cloneMap(s.products),
		cartItems:   cloneMap(s.cartItems),
		orders:      cloneMap(s.orders),
		orderItems:  cloneMap(s.orderItems),
		auditLogs:   append([]model.AuditLog(nil), s.auditLogs...),
		nextAuditID: s.nextAuditID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.seq = snap.seq
	s.rowSeq = snap.rowSeq
	s.products = snap.products
	s.cartItems = snap.cartItems
	s.orders = snap.orders
	s.orderItems = snap.orderItems
	s.auditLogs = snap.auditLogs
	s.nextAuditID = snap.nextAuditID
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// 作成日時→挿入順
func (s *Store) less(aID string, aAt time.Time, bID string, bAt time.Time) bool {
	if !aAt.Equal(bAt) {
		return aAt.Before(bAt)
	}
	return s.rowSeq[aID] < s.rowSeq[bID]
}

func cloneProduct(p model.Product) model.Product {
	if p.Category != nil {
		c := *p.Category
		p.Category = &c
	}
	return p
}

func cloneOrder(o model.Order) model.Order {
	if o.ShippingAddress != nil {
		a := *o.ShippingAddress
		o.ShippingAddress = &a
	}
	if o.OrderNote != nil {
		n := *o.OrderNote
		o.OrderNote = &n
	}
	return o
}
