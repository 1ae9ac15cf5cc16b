package rates

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/jmdelacruz/pharmacy-inventory/internal/config"
	"github.com/sirupsen/logrus"
)

// Client fetches daily reference exchange rates from an XML feed
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new exchange-rate client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.RatesURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch downloads the raw XML rates document
func (c *Client) fetch() ([]byte, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("Rates XML response: %s", string(body))

	return body, nil
}

// parseRate extracts the reference rate for a currency from the XML document
func parseRate(rawBody []byte, currency string) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %v", err)
	}

	for _, cube := range doc.FindElements("//Cube[@currency]") {
		if !strings.EqualFold(cube.SelectAttrValue("currency", ""), currency) {
			continue
		}
		rate, err := strconv.ParseFloat(cube.SelectAttrValue("rate", ""), 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse rate: %v", err)
		}
		return rate, nil
	}

	return 0, fmt.Errorf("no rate found for currency %s", currency)
}

// GetRate retrieves the current reference rate for the given currency
func (c *Client) GetRate(currency string) (float64, error) {
	body, err := c.fetch()
	if err != nil {
		return 0, err
	}

	rate, err := parseRate(body, currency)
	if err != nil {
		return 0, err
	}

	c.log.Infof("Retrieved reference rate for %s: %.4f", currency, rate)
	return rate, nil
}
