package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"card-pull-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceSyncClient polls the external balance service and mirrors token
// balances locally. The rules engine never talks to this service: handlers
// read the mirror and pass a TokenBalance value in.
type BalanceSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewBalanceSyncClient(db *gorm.DB) *BalanceSyncClient {
	baseURL := os.Getenv("BALANCE_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("BALANCE_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("CARD_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("CARD_SERVICE_TOKEN environment variable is required for balance sync")
	}

	return &BalanceSyncClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetChangedBalances fetches balances updated since the given time.
func (c *BalanceSyncClient) GetChangedBalances(ctx context.Context, since time.Time) ([]models.BalanceMirror, error) {
	since = since.UTC()

	u, err := url.Parse(fmt.Sprintf("%s/api/v1/public/balances", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call balance service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("balance service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Balances []models.BalanceMirror `json:"balances"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode balance service response: %w", err)
	}

	// Addresses are storage keys — normalize before they hit the mirror.
	for i := range response.Balances {
		response.Balances[i].Address = strings.ToLower(response.Balances[i].Address)
	}

	return response.Balances, nil
}

// PollBalances mirrors balance changes into the balance_mirror table.
func PollBalances(ctx context.Context, client *BalanceSyncClient, pollInterval time.Duration) {
	log.Println("Starting balance polling (DB-backed)...")
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Balance polling stopped.")
			return
		case <-ticker.C:
			logTime := time.Now().UTC()

			balances, err := client.GetChangedBalances(ctx, lastSyncTime)
			if err != nil {
				log.Printf("❌ Error polling balances: %v", err)
				continue
			}

			count := len(balances)
			if count == 0 {
				continue
			}
			log.Printf("📥 Received %d balance change(s) from balance service.", count)

			// Batch upsert keyed on the wallet address
			if err := client.DB.Clauses(
				clause.OnConflict{
					Columns: []clause.Column{{Name: "address"}},
					DoUpdates: clause.AssignmentColumns([]string{
						"chain",
						"token",
						"formatted_balance",
						"last_checked_at",
						"updated_at",
					}),
				},
			).Create(&balances).Error; err != nil {
				log.Printf("❌ Failed to upsert %d balance(s) into balance_mirror: %v", count, err)
				// Do NOT update lastSyncTime on failure — retry same window next tick
				continue
			}

			lastSyncTime = logTime
			log.Printf("✅ Upserted %d balance(s) into balance_mirror table.", count)
		}
	}
}

// GetBalanceForWallet reads the mirrored balance for one wallet. A missing
// row is a zero balance, not an error.
func GetBalanceForWallet(db *gorm.DB, address string) (models.TokenBalance, error) {
	address = strings.ToLower(address)
	var mirror models.BalanceMirror
	if err := db.Where("address = ?", address).First(&mirror).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.TokenBalance{}, nil
		}
		return models.TokenBalance{}, err
	}
	return mirror.Snapshot(), nil
}
