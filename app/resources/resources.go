// Package resources defines the JSON shapes the API returns. Money is
// rounded to two decimals here and nowhere else; models and services
// keep full float64 precision.
package resources

import (
	"math"

	"github.com/gametribe/backend/app/models"
	"github.com/gametribe/backend/app/services"
	"github.com/gametribe/backend/pkg/resource"
)

// Round2 rounds a money amount to two decimal places for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func itemMaps(items []models.CartItem) []resource.Map {
	out := make([]resource.Map, len(items))
	for i, item := range items {
		out[i] = resource.Map{
			"game_id":  item.GameID.Hex(),
			"name":     item.Name,
			"price":    Round2(item.Price),
			"image":    item.Image,
			"quantity": item.Quantity,
		}
	}
	return out
}

// GameResource shapes a catalog entry.
type GameResource struct{}

func (GameResource) ToArray(v any) resource.Map {
	g := v.(models.Game)
	return resource.Map{
		"id":           g.ID.Hex(),
		"name":         g.Name,
		"description":  g.Description,
		"price":        Round2(g.Price),
		"image":        g.Image,
		"genres":       g.Genres,
		"featured":     g.Featured,
		"release_date": g.ReleaseDate,
		"created_at":   g.CreatedAt,
	}
}

// CartResource shapes a cart together with its totals.
type CartResource struct{}

func (CartResource) ToArray(v any) resource.Map {
	cv := v.(*services.CartView)
	return resource.Map{
		"id":         cv.Cart.ID.Hex(),
		"items":      itemMaps(cv.Cart.Items),
		"subtotal":   Round2(cv.Totals.Subtotal),
		"tax":        Round2(cv.Totals.Tax),
		"total":      Round2(cv.Totals.Total),
		"item_count": cv.Totals.ItemCount,
		"updated_at": cv.Cart.UpdatedAt,
	}
}

// OrderResource shapes an order with its frozen amounts.
type OrderResource struct{}

func (OrderResource) ToArray(v any) resource.Map {
	o := v.(models.Order)
	return resource.Map{
		"id":           o.ID.Hex(),
		"order_number": o.OrderNumber,
		"user_id":      o.UserID.Hex(),
		"items":        itemMaps(o.Items),
		"subtotal":     Round2(o.Subtotal),
		"tax":          Round2(o.Tax),
		"total":        Round2(o.Total),
		"shipping_address": resource.Map{
			"full_name":   o.ShippingAddress.FullName,
			"email":       o.ShippingAddress.Email,
			"address":     o.ShippingAddress.Address,
			"city":        o.ShippingAddress.City,
			"state":       o.ShippingAddress.State,
			"postal_code": o.ShippingAddress.PostalCode,
		},
		"payment_method": o.PaymentMethod,
		"status":         o.Status,
		"paid_at":        o.PaidAt,
		"delivered_at":   o.DeliveredAt,
		"created_at":     o.CreatedAt,
	}
}

// UserResource shapes an account. The password hash never appears.
type UserResource struct{}

func (UserResource) ToArray(v any) resource.Map {
	u := v.(models.User)
	favorites := make([]string, len(u.Favorites))
	for i, id := range u.Favorites {
		favorites[i] = id.Hex()
	}
	return resource.Map{
		"id":            u.ID.Hex(),
		"email":         u.Email,
		"display_name":  u.DisplayName,
		"profile_image": u.ProfileImage,
		"personal_note": u.PersonalNote,
		"role":          u.Role,
		"is_active":     u.IsActive,
		"games_owned":   u.GamesOwned,
		"favorites":     favorites,
		"member_since":  u.MemberSince,
	}
}
