package config

import (
	"encoding/json"
	"os"
)

// KeywordConfig is the consent vocabulary handed to the engine at
// construction. The on-disk schema is words.json: base phrase lists per
// action plus a per-language translation table applied to the base words.
type KeywordConfig struct {
	AcceptWords         []string                     `json:"accept_words"`
	RejectWords         []string                     `json:"reject_words"`
	SettingWords        []string                     `json:"setting_words"`
	SaveWords           []string                     `json:"save_words"`
	EssentialsOnlyWords []string                     `json:"essentials_only_words"`
	Words               map[string]map[string]string `json:"words"`
}

// LoadKeywordConfig reads a words.json file. An empty path returns the
// built-in multilingual defaults.
func LoadKeywordConfig(path string) (KeywordConfig, error) {
	if path == "" {
		return DefaultKeywordConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordConfig{}, err
	}

	var cfg KeywordConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return KeywordConfig{}, err
	}
	return cfg, nil
}

// Accept returns the accept vocabulary with translations applied.
func (c KeywordConfig) Accept() []string { return c.expand(c.AcceptWords) }

// Reject returns the reject vocabulary with translations applied.
func (c KeywordConfig) Reject() []string { return c.expand(c.RejectWords) }

// Settings returns the settings/customize vocabulary with translations
// applied.
func (c KeywordConfig) Settings() []string { return c.expand(c.SettingWords) }

// Save returns the save/confirm vocabulary with translations applied.
func (c KeywordConfig) Save() []string { return c.expand(c.SaveWords) }

// EssentialsOnly returns the essentials-only vocabulary with translations
// applied.
func (c KeywordConfig) EssentialsOnly() []string { return c.expand(c.EssentialsOnlyWords) }

// expand unions the base list with every translation the language table has
// for a base word, preserving first-seen order.
func (c KeywordConfig) expand(base []string) []string {
	seen := make(map[string]struct{}, len(base))
	out := make([]string, 0, len(base))

	add := func(word string) {
		if word == "" {
			return
		}
		if _, ok := seen[word]; ok {
			return
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}

	for _, w := range base {
		add(w)
	}
	for _, translations := range c.Words {
		for _, w := range base {
			if translated, ok := translations[w]; ok {
				add(translated)
			}
		}
	}
	return out
}

// DefaultKeywordConfig is the built-in vocabulary used when no words.json is
// supplied. It covers the locales most common in the crawled site lists.
func DefaultKeywordConfig() KeywordConfig {
	return KeywordConfig{
		AcceptWords: []string{
			"accept", "accept all", "accept all cookies", "accept cookies",
			"agree", "i agree", "i accept", "allow all", "allow cookies",
			"got it", "ok", "okay", "yes, i agree",
			"akzeptieren", "alle akzeptieren", "zustimmen",
			"tout accepter", "j'accepte", "accepter",
			"aceptar", "aceptar todo",
			"accetta", "accetta tutto",
			"accepteren", "alles accepteren",
			"godta alle", "acceptér alle", "hyväksy kaikki",
			"zaakceptuj wszystkie", "aceitar tudo",
		},
		RejectWords: []string{
			"reject", "reject all", "reject all cookies", "decline",
			"decline all", "refuse", "refuse all", "deny", "deny all",
			"continue without accepting", "do not accept",
			"ablehnen", "alle ablehnen",
			"tout refuser", "refuser", "continuer sans accepter",
			"rechazar", "rechazar todo",
			"rifiuta", "rifiuta tutto",
			"weigeren", "alles weigeren",
			"avvis alle", "afvis alle", "hylkää kaikki",
			"odrzuć wszystkie", "rejeitar tudo",
		},
		SettingWords: []string{
			"settings", "cookie settings", "manage", "manage cookies",
			"manage preferences", "manage settings", "customize",
			"customise", "options", "more options", "preferences",
			"let me choose", "configure",
			"einstellungen", "cookie-einstellungen", "anpassen",
			"paramètres", "personnaliser", "gérer les cookies",
			"configurar", "personalizar",
			"impostazioni", "personalizza",
			"instellingen", "voorkeuren",
			"innstillinger", "indstillinger", "asetukset", "ustawienia",
		},
		SaveWords: []string{
			"save", "save settings", "save preferences", "save choices",
			"save and exit", "confirm", "confirm choices",
			"confirm my choices", "apply", "submit preferences",
			"speichern", "auswahl speichern", "auswahl bestätigen",
			"enregistrer", "sauvegarder", "confirmer",
			"guardar", "confirmar",
			"salva", "conferma",
			"opslaan", "bevestigen",
			"lagre", "gem", "tallenna", "zapisz",
		},
		EssentialsOnlyWords: []string{
			"essential only", "essentials only", "only essential",
			"only essential cookies", "necessary only", "only necessary",
			"only necessary cookies", "strictly necessary",
			"required only", "required cookies only",
			"nur notwendige", "nur erforderliche",
			"essentiels uniquement", "seulement les essentiels",
			"solo esenciales", "solo necesarias",
			"solo essenziali", "solo necessari",
			"alleen noodzakelijk",
			"kun nødvendige", "vain välttämättömät", "tylko niezbędne",
		},
		Words: map[string]map[string]string{
			"de": {"accept": "akzeptieren", "reject": "ablehnen", "save": "speichern"},
			"fr": {"accept": "accepter", "reject": "refuser", "save": "enregistrer"},
			"es": {"accept": "aceptar", "reject": "rechazar", "save": "guardar"},
		},
	}
}
