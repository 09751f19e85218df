package usecasees

import (
	"time"

	"signalcopier/internal/repository/mongo/structs"
	"signalcopier/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNotFound = errors.New("not found")

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return logger
}

func testProfile() *structs.ChannelProfile {
	profile := &structs.ChannelProfile{
		ChannelID: 100,
		Name:      "test",
		Enabled:   true,
	}
	profile.ApplyDefaults()

	return profile
}

func testAccount() *structs.AccountProfile {
	return &structs.AccountProfile{
		AccountID: "12345",
		Platform:  structs.PlatformMT5,
		Enabled:   true,
		Balance:   10000,
	}
}

type fakeOrderRepo struct {
	orders []*models.Order
}

func (r *fakeOrderRepo) Store(m *models.Order) error {
	cp := *m
	r.orders = append(r.orders, &cp)
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*models.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeOrderRepo) GetByTicket(accountID string, ticket int64) (*models.Order, error) {
	for _, o := range r.orders {
		if o.AccountID == accountID && o.Ticket == ticket {
			cp := *o
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeOrderRepo) GetBySignalID(signalID string, includeClosed bool) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.SignalID != signalID {
			continue
		}
		if !includeClosed && o.Status == models.OrderStatusClosed {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) GetBySymbol(symbol, accountID, platform string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.Symbol == symbol && o.AccountID == accountID && o.Platform == platform && o.Status != models.OrderStatusClosed {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByChannel(channelID int64, accountID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.ChannelID == channelID && o.AccountID == accountID && o.Status != models.OrderStatusClosed {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByGroupID(groupID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.GroupID == groupID && o.Status != models.OrderStatusClosed {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetTracked(accountID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.AccountID == accountID && o.Status != models.OrderStatusClosed {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) SetTicket(id string, ticket int64, entry float64) error {
	for _, o := range r.orders {
		if o.ID == id {
			o.Ticket = ticket
			o.Entry = entry
			o.Status = models.OrderStatusOpen
			return nil
		}
	}
	return errNotFound
}

func (r *fakeOrderRepo) SetStatus(id string, status string) error {
	for _, o := range r.orders {
		if o.ID == id {
			o.Status = status
			return nil
		}
	}
	return errNotFound
}

func (r *fakeOrderRepo) SetStopLoss(id string, stopLoss float64) error {
	for _, o := range r.orders {
		if o.ID == id {
			o.StopLoss = stopLoss
			return nil
		}
	}
	return errNotFound
}

func (r *fakeOrderRepo) Delete(id string) error {
	for i, o := range r.orders {
		if o.ID == id && o.Status == models.OrderStatusPending {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeSignalRepo struct {
	signals []*models.Signal
}

func (r *fakeSignalRepo) Store(m *models.Signal) error {
	cp := *m
	r.signals = append(r.signals, &cp)
	return nil
}

func (r *fakeSignalRepo) GetByID(id string) (*models.Signal, error) {
	for _, s := range r.signals {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeSignalRepo) GetByMessage(channelID, messageID int64) (*models.Signal, error) {
	for _, s := range r.signals {
		if s.ChannelID == channelID && s.MessageID == messageID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errNotFound
}

type fakeModRepo struct {
	mods     []*models.Modification
	statuses map[string]string
}

func (r *fakeModRepo) Store(m *models.Modification) error {
	cp := *m
	r.mods = append(r.mods, &cp)
	return nil
}

func (r *fakeModRepo) SetStatus(id string, status string) error {
	if r.statuses == nil {
		r.statuses = make(map[string]string)
	}
	r.statuses[id] = status
	return nil
}

type fakeGroupRepo struct {
	groups map[string]*models.OrderGroup
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string]*models.OrderGroup)}
}

func (r *fakeGroupRepo) Store(m *models.OrderGroup) error {
	cp := *m
	r.groups[m.ID] = &cp
	return nil
}

func (r *fakeGroupRepo) GetByID(id string) (*models.OrderGroup, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGroupRepo) GetBySignalID(signalID string) (*models.OrderGroup, error) {
	for _, g := range r.groups {
		if g.SignalID == signalID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeGroupRepo) Update(m *models.OrderGroup) error {
	cp := *m
	r.groups[m.ID] = &cp
	return nil
}

func (r *fakeGroupRepo) PurgeBefore(t time.Time) (int64, error) {
	var n int64
	for id, g := range r.groups {
		if g.CreatedAt.Before(t) {
			delete(r.groups, id)
			n++
		}
	}
	return n, nil
}

type fakeRiskRepo struct {
	stats map[string]*models.DailyRiskStats
}

func newFakeRiskRepo() *fakeRiskRepo {
	return &fakeRiskRepo{stats: make(map[string]*models.DailyRiskStats)}
}

func riskKey(accountID, platform, day string) string {
	return accountID + "|" + platform + "|" + day
}

func (r *fakeRiskRepo) Get(accountID, platform, day string) (*models.DailyRiskStats, error) {
	s, ok := r.stats[riskKey(accountID, platform, day)]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *fakeRiskRepo) Store(m *models.DailyRiskStats) error {
	r.stats[riskKey(m.AccountID, m.Platform, m.Day)] = m
	return nil
}

func (r *fakeRiskRepo) Update(m *models.DailyRiskStats) error {
	r.stats[riskKey(m.AccountID, m.Platform, m.Day)] = m
	return nil
}

func (r *fakeRiskRepo) Delete(accountID, platform, day string) error {
	delete(r.stats, riskKey(accountID, platform, day))
	return nil
}

type fakeChannelProfileRepo struct {
	profiles map[int64]*structs.ChannelProfile
}

func newFakeChannelProfileRepo(profiles ...*structs.ChannelProfile) *fakeChannelProfileRepo {
	r := &fakeChannelProfileRepo{profiles: make(map[int64]*structs.ChannelProfile)}
	for _, p := range profiles {
		r.profiles[p.ChannelID] = p
	}
	return r
}

func (r *fakeChannelProfileRepo) SetDefault() error { return nil }

func (r *fakeChannelProfileRepo) Load(channelID int64) (*structs.ChannelProfile, error) {
	p, ok := r.profiles[channelID]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *fakeChannelProfileRepo) LoadAll() ([]structs.ChannelProfile, error) {
	var out []structs.ChannelProfile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeChannelProfileRepo) UpdateEnabled(id primitive.ObjectID, enabled bool) error {
	return nil
}

type fakeAccountProfileRepo struct {
	accounts map[string]*structs.AccountProfile
}

func newFakeAccountProfileRepo(accounts ...*structs.AccountProfile) *fakeAccountProfileRepo {
	r := &fakeAccountProfileRepo{accounts: make(map[string]*structs.AccountProfile)}
	for _, a := range accounts {
		r.accounts[a.AccountID] = a
	}
	return r
}

func (r *fakeAccountProfileRepo) Load(accountID string) (*structs.AccountProfile, error) {
	a, ok := r.accounts[accountID]
	if !ok {
		return nil, errNotFound
	}
	return a, nil
}

func (r *fakeAccountProfileRepo) LoadAll() ([]structs.AccountProfile, error) {
	var out []structs.AccountProfile
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAccountProfileRepo) UpdateBalance(id primitive.ObjectID, balance float64) error {
	return nil
}
