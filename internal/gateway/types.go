package gateway

// Transport DTOs for the processing API. The panel renders these verbatim;
// every derived value (balances, statuses, fees) is backend-authoritative.

// User is the authenticated operator profile returned by /auth/me.
type User struct {
	ID               string `json:"id"`
	Email            string `json:"email,omitempty"`
	Role             string `json:"role"`
	Status           string `json:"status,omitempty"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	TelegramUsername string `json:"telegram_username,omitempty"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled,omitempty"`
	LastLoginAt      string `json:"lastLoginAt,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty"`
}

// LoginResponse covers both login outcomes: a direct session token, or a
// Telegram confirmation handshake identified by Code.
type LoginResponse struct {
	Token                        string `json:"token,omitempty"`
	User                         *User  `json:"user,omitempty"`
	RequiresTelegramConfirmation bool   `json:"requiresTelegramConfirmation,omitempty"`
	Code                         string `json:"code,omitempty"`
	Message                      string `json:"message,omitempty"`
}

// ConfirmResponse is the Telegram confirmation poll result. An empty Token
// means the operator has not approved the login yet.
type ConfirmResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// RegisterRequest proxies the registration form.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Transaction statuses move pending → processing → completed|failed|cancelled
// on the backend only.
type Transaction struct {
	ID          string         `json:"id"`
	Amount      float64        `json:"amount"`
	Currency    string         `json:"currency"`
	Status      string         `json:"status"`
	Type        string         `json:"type"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
	UserID      string         `json:"userId"`
	WalletID    string         `json:"walletId"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// TransactionFilter scopes the transactions listing.
type TransactionFilter struct {
	Page   int
	Limit  int
	Status string
	Type   string
}

// TransactionPage is a paginated listing.
type TransactionPage struct {
	Items []Transaction `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// CreateTransaction is the manual transaction form payload.
type CreateTransaction struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Type        string  `json:"type"`
	WalletID    string  `json:"walletId"`
	Description string  `json:"description,omitempty"`
}

type Wallet struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Currency  string  `json:"currency"`
	Balance   float64 `json:"balance"`
	Status    string  `json:"status"`
	Address   string  `json:"address,omitempty"`
	UserID    string  `json:"userId"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// CreateWallet is the new-wallet form payload.
type CreateWallet struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
	Address  string `json:"address,omitempty"`
}

// Order is a trader work item with an assigned counterparty card.
type Order struct {
	ID                 int64      `json:"id"`
	ExternalID         string     `json:"external_id"`
	AmountRUB          float64    `json:"amount_rub"`
	AmountUSD          float64    `json:"amount_usd"`
	CommissionUSD      float64    `json:"commission_usd"`
	Status             string     `json:"status"`
	PaymentConfirmedAt *string    `json:"payment_confirmed_at"`
	ExpiresAt          string     `json:"expires_at"`
	Card               OrderCard  `json:"card"`
	Merchant           OrderParty `json:"merchant"`
}

type OrderCard struct {
	Number string `json:"number"`
	Bank   string `json:"bank"`
}

type OrderParty struct {
	Name string `json:"name"`
}

// OrderStats is the trader workload summary shown above the order table.
type OrderStats struct {
	Available   int     `json:"available"`
	Processing  int     `json:"processing"`
	Completed   int     `json:"completed"`
	TotalEarned float64 `json:"totalEarned"`
}

// OrdersResponse bundles the listing with its stats block.
type OrdersResponse struct {
	Orders []Order    `json:"orders"`
	Stats  OrderStats `json:"stats"`
}

// StatsOverview is the aggregated stats view for a period.
type StatsOverview struct {
	TotalVolume          float64            `json:"totalVolume"`
	TotalTransactions    int                `json:"totalTransactions"`
	AverageAmount        float64            `json:"averageAmount"`
	SuccessRate          float64            `json:"successRate"`
	VolumeByType         map[string]float64 `json:"volumeByType"`
	TransactionsByStatus map[string]int     `json:"transactionsByStatus"`
	ChartData            []StatsPoint       `json:"chartData"`
}

type StatsPoint struct {
	Date         string  `json:"date"`
	Volume       float64 `json:"volume"`
	Transactions int     `json:"transactions"`
}

// IntegrationKeys is the merchant API credentials view.
type IntegrationKeys struct {
	PublicKey  string `json:"public_key"`
	SecretKey  string `json:"secret_key"`
	WebhookURL string `json:"webhook_url"`
	IsTestMode bool   `json:"is_test_mode"`
}

// Request is a payment request shown on the dashboard.
type Request struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
	UserID    int64   `json:"userId"`
}

// RequestStats is the dashboard summary block. The backend reports per-status
// counts as rows; the panel folds them into fixed fields.
type RequestStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// SystemSettings is an opaque settings document owned by the backend.
type SystemSettings map[string]any
