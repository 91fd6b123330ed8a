// Package agentclient implements the agent's half of spec.md §6's HTTPS
// transport: fetching a client's catalog and, on demand, its declared
// asset files, both authenticated with X-API-Key.
package agentclient

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pullconf/pullconf/internal/wire"
)

// Client fetches catalogs and assets from one pullconfd server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New builds a Client. serverCA, if non-empty, pins a CA certificate
// file instead of trusting the system pool.
func New(baseURL, apiKey, serverCA string) (*Client, error) {
	transport := &http.Transport{}
	if serverCA != "" {
		pem, err := os.ReadFile(serverCA)
		if err != nil {
			return nil, fmt.Errorf("reading server CA: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", serverCA)
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Transport: transport, Timeout: 60 * time.Second},
	}, nil
}

// FetchCatalog retrieves and decodes hostname's catalog.
func (c *Client) FetchCatalog(hostname string) (*wire.Catalog, error) {
	body, err := c.get(fmt.Sprintf("/api/clients/%s", hostname))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var cat wire.Catalog
	if err := json.NewDecoder(body).Decode(&cat); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &cat, nil
}

// FetchAsset streams an asset's contents.
func (c *Client) FetchAsset(path string) (io.ReadCloser, error) {
	return c.get("/assets/" + path)
}

func (c *Client) get(path string) (io.ReadCloser, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: %d: %s", path, resp.StatusCode, string(msg))
	}
	return resp.Body, nil
}
