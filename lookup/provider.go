// Package lookup resolves the public IP address of the host and its
// location through public HTTP JSON services.
package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yllada/vpn-status/common"
)

// Result is the public address and where it is located.
// City and Country are empty when the provider omits them.
type Result struct {
	IP       string `json:"ip"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	Provider string `json:"provider"`
}

// Provider describes one lookup service.
type Provider struct {
	// Name is the identifier used in the configuration.
	Name string
	// URL is the JSON endpoint.
	URL string
	// KeyParam is the query parameter carrying an API key, if the service takes one.
	KeyParam string
	// KeyURL replaces URL when an API key is set.
	KeyURL string

	decode func(data []byte) (*Result, error)
}

// Decode parses a response body.
func (p Provider) Decode(data []byte) (*Result, error) {
	res, err := p.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	if res.IP == "" {
		return nil, fmt.Errorf("%s: response has no ip", p.Name)
	}
	res.Provider = p.Name
	return res, nil
}

var providers = map[string]Provider{
	"ipinfo": {
		Name:     "ipinfo",
		URL:      "https://ipinfo.io/json",
		KeyParam: "token",
		decode:   decodeIPInfo,
	},
	"ipapi.co": {
		Name:     "ipapi.co",
		URL:      "https://ipapi.co/json/",
		KeyParam: "key",
		decode:   decodeIPAPICo,
	},
	"ip-api.com": {
		Name:     "ip-api.com",
		URL:      "http://ip-api.com/json/",
		KeyParam: "key",
		KeyURL:   "https://pro.ip-api.com/json/",
		decode:   decodeIPAPICom,
	},
	"ipwhois": {
		Name:   "ipwhois",
		URL:    "https://ipwho.is/",
		decode: decodeIPWhois,
	},
	"freeipapi": {
		Name:   "freeipapi",
		URL:    "https://freeipapi.com/api/json",
		decode: decodeFreeIPAPI,
	},
	"mullvad": {
		Name:   "mullvad",
		URL:    "https://am.i.mullvad.net/json",
		decode: decodeMullvad,
	},
}

// DefaultProviders are tried when the configuration names none.
var DefaultProviders = []string{"ipinfo", "ipwhois", "ip-api.com", "freeipapi"}

// ParseProvider returns the provider registered under name.
func ParseProvider(name string) (Provider, error) {
	p, ok := providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Provider{}, fmt.Errorf("%w: %s", common.ErrUnknownProvider, name)
	}
	return p, nil
}

// Providers returns every provider sorted by name.
func Providers() []Provider {
	list := make([]Provider, 0, len(providers))
	for _, p := range providers {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func decodeIPInfo(data []byte) (*Result, error) {
	var body struct {
		IP      string `json:"ip"`
		City    string `json:"city"`
		Country string `json:"country"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return &Result{IP: body.IP, City: body.City, Country: body.Country}, nil
}

func decodeIPAPICo(data []byte) (*Result, error) {
	var body struct {
		IP          string `json:"ip"`
		City        string `json:"city"`
		CountryCode string `json:"country_code"`
		Error       bool   `json:"error"`
		Reason      string `json:"reason"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	if body.Error {
		return nil, errors.New(body.Reason)
	}
	return &Result{IP: body.IP, City: body.City, Country: body.CountryCode}, nil
}

func decodeIPAPICom(data []byte) (*Result, error) {
	var body struct {
		Status      string `json:"status"`
		Message     string `json:"message"`
		Query       string `json:"query"`
		City        string `json:"city"`
		CountryCode string `json:"countryCode"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("status %q: %s", body.Status, body.Message)
	}
	return &Result{IP: body.Query, City: body.City, Country: body.CountryCode}, nil
}

func decodeIPWhois(data []byte) (*Result, error) {
	var body struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		IP          string `json:"ip"`
		City        string `json:"city"`
		CountryCode string `json:"country_code"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, errors.New(body.Message)
	}
	return &Result{IP: body.IP, City: body.City, Country: body.CountryCode}, nil
}

func decodeFreeIPAPI(data []byte) (*Result, error) {
	var body struct {
		IPAddress   string `json:"ipAddress"`
		CityName    string `json:"cityName"`
		CountryCode string `json:"countryCode"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return &Result{IP: body.IPAddress, City: body.CityName, Country: body.CountryCode}, nil
}

func decodeMullvad(data []byte) (*Result, error) {
	var body struct {
		IP      string `json:"ip"`
		City    string `json:"city"`
		Country string `json:"country"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return &Result{IP: body.IP, City: body.City, Country: body.Country}, nil
}
