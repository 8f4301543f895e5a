package valueobjects

// ClientStatus is the derived lifecycle state of a client. It is computed on
// every read and never stored.
type ClientStatus string

const (
	StatusActive      ClientStatus = "ACTIVE"
	StatusMessageSent ClientStatus = "MESSAGE_SENT"
	StatusExpired     ClientStatus = "EXPIRED"
	StatusInactive    ClientStatus = "INACTIVE"
)

// AllStatuses lists every status in derivation precedence order.
var AllStatuses = []ClientStatus{
	StatusInactive,
	StatusActive,
	StatusMessageSent,
	StatusExpired,
}

var statusLabels = map[ClientStatus]string{
	StatusActive:      "Ativo",
	StatusMessageSent: "Mensagem enviada",
	StatusExpired:     "Vencido",
	StatusInactive:    "Inativo",
}

func (s ClientStatus) String() string {
	return string(s)
}

// Label returns the pt-BR display label.
func (s ClientStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s ClientStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// IsLapsed reports whether the cycle has ended without renewal, whether or
// not the client was already contacted about it.
func (s ClientStatus) IsLapsed() bool {
	return s == StatusExpired || s == StatusMessageSent
}
