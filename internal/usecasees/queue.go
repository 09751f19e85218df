package usecasees

import (
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"sync"

	"signalcopier/internal/controllers"
	orderStructs "signalcopier/internal/usecasees/structs"

	"github.com/sirupsen/logrus"
)

const (
	relaySignalsPath  = "/signals"
	relayModsPath     = "/modifications"
	relayAckPath      = "/signals/acknowledge"
	relayExecutedPath = "/signals/executed"
)

// queueUseCase holds the in-memory arenas of in-flight work, keyed by
// correlation id. Acknowledgment is the only deletion path; everything
// still queued is redelivered on the agent's next poll.
type queueUseCase struct {
	mu sync.Mutex

	signals     map[string]*orderStructs.QueuedSignal
	signalOrder []string
	mods        map[string][]orderStructs.Command
	seen        map[string]bool

	client   controllers.ClientCtrl
	relayURL string

	logger *logrus.Logger
}

func NewQueueUseCase(
	client controllers.ClientCtrl,
	relayURL string,
	logger *logrus.Logger,
) *queueUseCase {
	return &queueUseCase{
		signals:  make(map[string]*orderStructs.QueuedSignal),
		mods:     make(map[string][]orderStructs.Command),
		seen:     make(map[string]bool),
		client:   client,
		relayURL: relayURL,
		logger:   logger,
	}
}

// EnqueueSignal registers a sub-order for delivery. When a relay is
// configured the signal is pushed there first; a relay-assigned id replaces
// the local correlation id, with fallback to the local one if the push
// fails. Duplicate correlation ids are dropped.
func (u *queueUseCase) EnqueueSignal(qs *orderStructs.QueuedSignal) {
	u.mu.Lock()
	if u.seen[qs.ID] {
		u.mu.Unlock()
		u.logger.WithField("id", qs.ID).Debug("duplicate signal enqueue, skipping")
		return
	}
	u.seen[qs.ID] = true
	u.mu.Unlock()

	// The relay round-trip happens outside the lock so a slow relay cannot
	// stall agent polls.
	if relayID := u.pushRelaySignal(qs); relayID != "" {
		qs.ID = relayID
	}

	u.mu.Lock()
	u.signals[qs.ID] = qs
	u.signalOrder = append(u.signalOrder, qs.ID)
	u.mu.Unlock()
}

// PendingSignals lists the queued signals for one account, oldest first.
// Read-only: entries stay queued until acknowledged.
func (u *queueUseCase) PendingSignals(accountID string) []orderStructs.QueuedSignal {
	u.mu.Lock()
	defer u.mu.Unlock()

	var out []orderStructs.QueuedSignal
	for _, id := range u.signalOrder {
		qs, ok := u.signals[id]
		if !ok || qs.AccountID != accountID {
			continue
		}
		out = append(out, *qs)
	}

	return out
}

// AckSignal removes one signal by correlation id. A nil return means the id
// was unknown; the caller logs a warning and still reports success.
func (u *queueUseCase) AckSignal(id string) *orderStructs.QueuedSignal {
	u.mu.Lock()
	defer u.mu.Unlock()

	qs, ok := u.signals[id]
	if !ok {
		return nil
	}

	delete(u.signals, id)
	for i, queued := range u.signalOrder {
		if queued == id {
			u.signalOrder = append(u.signalOrder[:i], u.signalOrder[i+1:]...)
			break
		}
	}

	return qs
}

// EnqueueCommands appends modification commands to their account queues.
// Commands without tickets never enter the queue.
func (u *queueUseCase) EnqueueCommands(cmds []orderStructs.Command) {
	for _, cmd := range cmds {
		if len(cmd.Tickets) == 0 {
			u.logger.WithField("kind", cmd.Kind).Error("refusing to queue command with no tickets")
			continue
		}

		u.pushRelayModification(&cmd)

		u.mu.Lock()
		u.mods[cmd.AccountID] = append(u.mods[cmd.AccountID], cmd)
		u.mu.Unlock()
	}
}

// PendingModifications lists the queued commands for one account. Entries
// with an empty ticket list are filtered out again on serve: "no tickets"
// must never be read as "all tickets".
func (u *queueUseCase) PendingModifications(accountID string) []orderStructs.Command {
	u.mu.Lock()
	defer u.mu.Unlock()

	var out []orderStructs.Command
	for _, cmd := range u.mods[accountID] {
		if len(cmd.Tickets) == 0 {
			continue
		}
		out = append(out, cmd)
	}

	return out
}

// AckModifications removes every queued command for the account and returns
// them for post-processing.
func (u *queueUseCase) AckModifications(accountID string) []orderStructs.Command {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := u.mods[accountID]
	delete(u.mods, accountID)

	return out
}

// ResetCaches clears the transient dedup state. Called when the monitored
// channel set is swapped; queued work is left untouched.
func (u *queueUseCase) ResetCaches() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.seen = make(map[string]bool)
}

// ForwardAck publishes a fill acknowledgment to the relay for cross-system
// visibility. Best effort only.
func (u *queueUseCase) ForwardAck(signalID string, accountID string, ticket int64, entry float64) {
	if u.relayURL == "" {
		return
	}

	body, _ := json.Marshal(map[string]interface{}{
		"signalId":      signalID,
		"accountNumber": accountID,
		"ticket":        ticket,
		"entryPrice":    entry,
	})

	if _, err := u.send(http.MethodPost, relayAckPath, body, nil); err != nil {
		u.logger.WithError(err).Warn("relay ack forward failed")
	}
}

// ExecutedFill is one agent-reported fill pulled back from the relay.
type ExecutedFill struct {
	SignalID   string  `json:"signalId"`
	AccountID  string  `json:"accountNumber"`
	Ticket     int64   `json:"ticket"`
	EntryPrice float64 `json:"entryPrice"`
	ClosePrice float64 `json:"closePrice"`
	Profit     float64 `json:"profit"`
	Closed     bool    `json:"closed"`
}

// FetchExecuted pulls agent-reported fills for local reconciliation.
func (u *queueUseCase) FetchExecuted(accountID string) []ExecutedFill {
	if u.relayURL == "" {
		return nil
	}

	q := url.Values{}
	q.Set("account", accountID)

	body, err := u.send(http.MethodGet, relayExecutedPath, nil, q)
	if err != nil {
		u.logger.WithError(err).Warn("relay executed pull failed")
		return nil
	}

	var out []ExecutedFill
	if err := json.Unmarshal(body, &out); err != nil {
		u.logger.WithError(err).Warn("relay executed decode failed")
		return nil
	}

	return out
}

func (u *queueUseCase) pushRelaySignal(qs *orderStructs.QueuedSignal) string {
	if u.relayURL == "" {
		return ""
	}

	body, err := json.Marshal(qs)
	if err != nil {
		return ""
	}

	resp, err := u.send(http.MethodPost, relaySignalsPath, body, nil)
	if err != nil {
		u.logger.WithError(err).Warn("relay signal push failed, keeping local id")
		return ""
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		return ""
	}

	return out.ID
}

func (u *queueUseCase) pushRelayModification(cmd *orderStructs.Command) {
	if u.relayURL == "" {
		return
	}

	body, err := json.Marshal(cmd)
	if err != nil {
		return
	}

	if _, err := u.send(http.MethodPost, relayModsPath, body, nil); err != nil {
		u.logger.WithError(err).Warn("relay modification push failed")
	}
}

func (u *queueUseCase) send(method, urlPath string, body []byte, query url.Values) ([]byte, error) {
	baseURL, err := url.Parse(u.relayURL)
	if err != nil {
		return nil, err
	}

	baseURL.Path = path.Join(baseURL.Path, urlPath)
	if query != nil {
		baseURL.RawQuery = query.Encode()
	}

	return u.client.Send(method, baseURL, body, true)
}
