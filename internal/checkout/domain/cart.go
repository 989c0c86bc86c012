package domain

// CartSnapshot is the client-supplied view of a cart at checkout time. Only
// product identity and requested quantity are trusted from it; any price the
// client embeds is discarded by the verifier.
type CartSnapshot struct {
	StoreID   string
	StoreName string
	Items     []CartItem
}

type CartItem struct {
	ProductID string
	Quantity  int
}

// Cart is the persisted per-user cart. Single-vendor: switching stores
// replaces the whole cart, so writes are whole-document upserts.
type Cart struct {
	UserID    string
	StoreID   string
	StoreName string
	Items     []CartItem
}
