package setting

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTemplateLength is the maximum length of a template in characters.
const MaxTemplateLength = 4000

// TemplateKind identifies one of the message templates
type TemplateKind string

const (
	TemplateUpcoming TemplateKind = "upcoming"
	TemplateExpired  TemplateKind = "expired"
)

// IsValid checks if the template kind is known
func (k TemplateKind) IsValid() bool {
	return k == TemplateUpcoming || k == TemplateExpired
}

// ParseTemplateKind converts user input into a TemplateKind
func ParseTemplateKind(s string) (TemplateKind, error) {
	kind := TemplateKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplateKind, s)
	}
	return kind, nil
}

const defaultUpcomingTemplate = "Olá {{nome}}! Tudo bem?\n\n" +
	"Identificamos que sua assinatura TV Online está para vencer no dia {{vencimento}}.\n\n" +
	"Para continuar aproveitando nossos serviços, você pode realizar a renovação via Pix.\n\n" +
	"Valor: {{valor}}\n" +
	"Usuário: {{usuario}}\n\n" +
	"Qualquer dúvida, estamos à disposição!"

const defaultExpiredTemplate = "Olá {{nome}}! Notamos que sua assinatura TV Online venceu no dia {{vencimento}}.\n\n" +
	"Gostaria de renovar seu acesso? O pagamento pode ser feito via Pix.\n\n" +
	"Valor: {{valor}}\n" +
	"Usuário: {{usuario}}\n\n" +
	"Aguardo seu retorno!"

// AppSettings holds the outreach message templates. There is one instance
// per installation.
type AppSettings struct {
	upcoming string
	expired  string
}

// DefaultAppSettings returns the built-in templates
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		upcoming: defaultUpcomingTemplate,
		expired:  defaultExpiredTemplate,
	}
}

// NewAppSettings creates validated settings
func NewAppSettings(upcoming, expired string) (*AppSettings, error) {
	s := &AppSettings{upcoming: upcoming, expired: expired}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Upcoming returns the template for clients about to expire
func (s *AppSettings) Upcoming() string {
	return s.upcoming
}

// Expired returns the template for clients past their expiration
func (s *AppSettings) Expired() string {
	return s.expired
}

// Template returns the template of the given kind
func (s *AppSettings) Template(kind TemplateKind) (string, error) {
	switch kind {
	case TemplateUpcoming:
		return s.upcoming, nil
	case TemplateExpired:
		return s.expired, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplateKind, kind)
	}
}

// WithTemplate returns a copy with one template replaced
func (s *AppSettings) WithTemplate(kind TemplateKind, text string) (*AppSettings, error) {
	cp := *s
	switch kind {
	case TemplateUpcoming:
		cp.upcoming = text
	case TemplateExpired:
		cp.expired = text
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTemplateKind, kind)
	}
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	return &cp, nil
}

// Validate checks both templates
func (s *AppSettings) Validate() error {
	if err := validateTemplate(TemplateUpcoming, s.upcoming); err != nil {
		return err
	}
	return validateTemplate(TemplateExpired, s.expired)
}

func validateTemplate(kind TemplateKind, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%s: %w", kind, ErrEmptyTemplate)
	}
	if n := utf8.RuneCountInString(text); n > MaxTemplateLength {
		return fmt.Errorf("%s: %w (%d > %d characters)", kind, ErrTemplateTooLong, n, MaxTemplateLength)
	}
	return nil
}
