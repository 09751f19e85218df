package usecasees

import (
	"signalcopier/models"
)

// Bus is the internal event fan-out between pipeline components. Handlers
// are registered explicitly at construction time and dispatched
// synchronously in registration order; there is no hidden reentrancy.
type Bus struct {
	orderOpened []func(order *models.Order)
	orderClosed []func(order *models.Order, profit float64)
	targetHit   []func(order *models.Order, level int, profit float64)
	stopHit     []func(order *models.Order)
	limitHit    []func(accountID, platform, kind string)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) OnOrderOpened(h func(order *models.Order)) {
	b.orderOpened = append(b.orderOpened, h)
}

func (b *Bus) OnOrderClosed(h func(order *models.Order, profit float64)) {
	b.orderClosed = append(b.orderClosed, h)
}

func (b *Bus) OnTargetHit(h func(order *models.Order, level int, profit float64)) {
	b.targetHit = append(b.targetHit, h)
}

func (b *Bus) OnStopHit(h func(order *models.Order)) {
	b.stopHit = append(b.stopHit, h)
}

func (b *Bus) OnLimitHit(h func(accountID, platform, kind string)) {
	b.limitHit = append(b.limitHit, h)
}

func (b *Bus) PublishOrderOpened(order *models.Order) {
	for _, h := range b.orderOpened {
		h(order)
	}
}

func (b *Bus) PublishOrderClosed(order *models.Order, profit float64) {
	for _, h := range b.orderClosed {
		h(order, profit)
	}
}

func (b *Bus) PublishTargetHit(order *models.Order, level int, profit float64) {
	for _, h := range b.targetHit {
		h(order, level, profit)
	}
}

func (b *Bus) PublishStopHit(order *models.Order) {
	for _, h := range b.stopHit {
		h(order)
	}
}

func (b *Bus) PublishLimitHit(accountID, platform, kind string) {
	for _, h := range b.limitHit {
		h(accountID, platform, kind)
	}
}
