package validation

import (
	"fmt"
	"net/http"
	"regexp"
)

// Rule tek bir parametre için doğrulama kuralı
type Rule string

// RuleIdentifier harf, rakam, _ - . @
const RuleIdentifier Rule = "identifier"

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]{1,64}$`)

// ValidateParameters query ve (POST ise) form parametrelerini kurallara göre
// doğrular. Boş değerler "filtre yok" anlamına geldiği için geçerlidir.
func ValidateParameters(r *http.Request, rules map[string]Rule) error {
	if len(rules) == 0 {
		return nil
	}

	values := r.URL.Query()
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("form okunamadı: %w", err)
		}
		values = r.Form
	}

	for name, rule := range rules {
		for _, value := range values[name] {
			if value == "" {
				continue
			}
			if err := checkRule(name, value, rule); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkRule(name, value string, rule Rule) error {
	switch rule {
	case RuleIdentifier:
		if !identifierPattern.MatchString(value) {
			return fmt.Errorf("parametre '%s' geçersiz karakter içeriyor", name)
		}
	}
	return nil
}
