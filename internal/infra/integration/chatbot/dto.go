package chatbot

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// --- RESPONSE: o que o chatbot devolve em /getleads ---
// Users é ponteiro para distinguir lista vazia de campo ausente.
type leadsResponse struct {
	Users *[]User `json:"users"`
}

// User é um contato capturado pelo chatbot. id e create são descartados na
// normalização, por isso ficam crus.
type User struct {
	ID         json.RawMessage `json:"id,omitempty"`
	Name       FlexString      `json:"name"`
	Company    FlexString      `json:"company"`
	UserNumber FlexString      `json:"user_number"`
	Create     json.RawMessage `json:"create,omitempty"`
}

// FlexString aceita string, número ou null. O chatbot manda telefone como
// número em algumas versões.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}
