package domain

// CartItem is one product line in a user's shopping cart.
type CartItem struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OwnerID satisfies the ownership check applied by the policy layer.
func (c *CartItem) OwnerID() int64 { return c.UserID }
