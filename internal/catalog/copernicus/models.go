package copernicus

import "encoding/json"

// odataResponse is the envelope of a catalog product query.
type odataResponse struct {
	Value []odataProduct `json:"value"`
}

// odataProduct is a single raw catalog record.
type odataProduct struct {
	ID               string           `json:"Id"`
	Name             string           `json:"Name"`
	ContentDate      odataContentDate `json:"ContentDate"`
	ModificationDate string           `json:"ModificationDate"`
	ProductType      string           `json:"ProductType"`
	Attributes       []odataAttribute `json:"Attributes"`
}

type odataContentDate struct {
	Start string `json:"Start"`
}

// odataAttribute is a loosely-typed catalog attribute. Value is kept raw
// because attribute types vary by name (doubles, strings, dates).
type odataAttribute struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}

// floatValue parses the attribute value as a float64.
func (a odataAttribute) floatValue() (float64, bool) {
	var f float64
	if err := json.Unmarshal(a.Value, &f); err != nil {
		return 0, false
	}
	return f, true
}

// tokenResponse is the identity provider's client-credentials grant response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
