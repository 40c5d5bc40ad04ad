// Package whatsapp exposes the messaging gateway monitoring data: the
// per-tenant sessions, the outgoing queue and the recent message log.
package whatsapp

import (
	"context"
	"regexp"
	"strings"

	"github.com/marcostaira/drgestao-admcli/internal/clients/api"
)

const summaryEndpoint = "/summary"

const unknownSession = "Desconhecido"

type Session struct {
	Owner     string `json:"owner"`
	Name      string `json:"name"`
	Number    string `json:"number"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

type QueueItem struct {
	ID         int    `json:"id"`
	ScheduleID int    `json:"schedule_id"`
	OwnerID    string `json:"owner_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	SentAt     string `json:"sent_at,omitempty"`

	// SessionName is resolved locally from the sessions list.
	SessionName string `json:"-"`
}

type Message struct {
	ID         int    `json:"id"`
	ScheduleID int    `json:"schedule_id"`
	Owner      string `json:"owner"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	CreatedAt  string `json:"created_at"`

	SessionName string `json:"-"`
}

type Summary struct {
	Sessions []Session   `json:"wa_sessions"`
	Queue    []QueueItem `json:"wa_queue"`
	Messages []Message   `json:"wa_messages"`
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Summary fetches the gateway snapshot and resolves the session name of
// every queue item and message. Owners without a session get a placeholder
// name.
func (c *Client) Summary(ctx context.Context) (Summary, error) {
	summary, err := api.Decode[Summary](c.api.Get(ctx, summaryEndpoint))
	if err != nil {
		return Summary{}, err
	}

	names := make(map[string]string, len(summary.Sessions))
	for _, s := range summary.Sessions {
		names[s.Owner] = s.Name
	}

	for i := range summary.Queue {
		summary.Queue[i].SessionName = sessionName(names, summary.Queue[i].OwnerID)
	}
	for i := range summary.Messages {
		summary.Messages[i].SessionName = sessionName(names, summary.Messages[i].Owner)
	}

	return summary, nil
}

func sessionName(names map[string]string, owner string) string {
	if name, ok := names[owner]; ok && name != "" {
		return name
	}

	return unknownSession
}

var nonDigits = regexp.MustCompile(`\D`)

// FormatPhoneBR renders a brazilian phone number as (DD) NNNNN-NNNN for
// mobile numbers or (DD) NNNN-NNNN for landlines. Anything else is returned
// unchanged.
func FormatPhoneBR(phone string) string {
	if phone == "" {
		return ""
	}

	digits := nonDigits.ReplaceAllString(phone, "")
	switch len(digits) {
	case 11:
		return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
	case 10:
		return "(" + digits[:2] + ") " + digits[2:6] + "-" + digits[6:]
	default:
		return phone
	}
}

var statusLabels = map[string]string{
	"connected":    "Conectado",
	"disconnected": "Desconectado",
	"connecting":   "Conectando",
	"pending":      "Pendente",
	"sent":         "Enviado",
	"delivered":    "Entregue",
	"read":         "Lido",
	"failed":       "Falhou",
	"queued":       "Na Fila",
	"processing":   "Processando",
}

// TranslateStatus maps a gateway status to its portuguese label, falling
// back to the raw value for unknown statuses.
func TranslateStatus(status string) string {
	if label, ok := statusLabels[strings.ToLower(status)]; ok {
		return label
	}

	return status
}
