package devapi

import (
	"fmt"
	"strings"

	"food-marketplace-client/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of both seeded accounts.
const DemoPassword = "password123"

const (
	DemoChefEmail     = "chef@example.com"
	DemoCustomerEmail = "customer@example.com"
)

type demoFood struct {
	name, description, category string
	price                       float64
	quantity, deliveryTime      int
}

var demoFoods = []demoFood{
	{"Chicken Biryani", "Fragrant basmati rice cooked with tender chicken pieces, aromatic spices, and herbs.", "Indian", 12.99, 15, 30},
	{"Paneer Tikka Masala", "Creamy tomato-based curry with cottage cheese cubes. Served with basmati rice and naan bread.", "Indian", 11.99, 20, 25},
	{"Butter Naan", "Soft, fluffy Indian bread brushed with butter and garlic.", "Indian", 2.99, 30, 10},
	{"Samosa (Pack of 4)", "Crispy fried pastry filled with spiced potatoes and peas. Served with mint chutney.", "Snacks", 4.99, 25, 20},
	{"Garlic Pasta", "Al dente spaghetti tossed with olive oil, fresh garlic, red chili, and parsley.", "Continental", 9.99, 12, 25},
	{"Margarita Pizza", "Fresh mozzarella, tomato sauce, and basil on a thin crust pizza.", "Continental", 10.99, 10, 30},
	{"Chocolate Cake", "Rich and moist chocolate cake with chocolate frosting.", "Desserts", 6.99, 8, 15},
	{"Vegetable Curry", "Mixed seasonal vegetables cooked in a spiced curry sauce. Vegan-friendly.", "Indian", 8.99, 18, 20},
}

// Seed fills an empty database with a demo chef, a demo customer, the chef's
// menu and its categories. A database that already has users is left alone.
func (s *Server) Seed() error {
	var users int64
	if err := s.db.Model(&User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	address := "123 Main St, City, State 12345"

	return s.db.Transaction(func(tx *gorm.DB) error {
		chef := User{Name: "Priya's Kitchen", Email: DemoChefEmail, PasswordHash: string(hash), Phone: "+1 (555) 123-4567", Role: models.RoleChef}
		customer := User{Name: "John Doe", Email: DemoCustomerEmail, PasswordHash: string(hash), Phone: "+1 (555) 987-6543", Role: models.RoleCustomer, Address: &address}
		if err := tx.Create(&chef).Error; err != nil {
			return err
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}

		seen := map[string]bool{}
		for _, d := range demoFoods {
			image := placeholderImage(d.name)
			food := Food{
				ChefID:       chef.ID,
				Name:         d.name,
				Description:  d.description,
				Price:        d.price,
				Category:     d.category,
				Image:        &image,
				Quantity:     d.quantity,
				DeliveryTime: d.deliveryTime,
				IsAvailable:  true,
			}
			if err := tx.Create(&food).Error; err != nil {
				return err
			}
			if !seen[d.category] {
				seen[d.category] = true
				category := Category{Name: d.category, Slug: strings.ToLower(d.category)}
				if err := tx.Create(&category).Error; err != nil {
					return err
				}
			}
		}
		s.logger.Infow("seeded demo data", "chef", chef.Email, "customer", customer.Email, "foods", len(demoFoods))
		return nil
	})
}

func placeholderImage(name string) string {
	return fmt.Sprintf("https://placehold.co/200x200?text=%s", strings.ReplaceAll(name, " ", "+"))
}
