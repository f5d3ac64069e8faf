// Package seed loads the demo accounts, catalog and a sample request.
package seed

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/canvasshub/canvasshub-backend/internal/canvass"
	"github.com/canvasshub/canvasshub-backend/pkg/config"
	"github.com/canvasshub/canvasshub-backend/pkg/db/models"
	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	"github.com/canvasshub/canvasshub-backend/pkg/logger"
	"github.com/canvasshub/canvasshub-backend/pkg/security"
)

const (
	AdminEmail = "admin@canvasshub.com"
	UserEmail  = "user@example.com"

	sampleNotes = "Looking for ergonomic office setup for new workspace"
)

type catalogEntry struct {
	Name        string
	Description string
	Category    string
	ImageURL    string
}

var catalog = []catalogEntry{
	{"Office Desk Chair", "Ergonomic office chair with lumbar support and adjustable height", "Furniture", "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=400&fit=crop"},
	{"Standing Desk", "Electric height-adjustable standing desk with spacious work surface", "Furniture", "https://images.unsplash.com/photo-1586953208448-b95a79798f07?w=400&h=400&fit=crop"},
	{"Wireless Mouse", "Ergonomic wireless mouse with precision tracking and long battery life", "Electronics", "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=400&h=400&fit=crop"},
	{"Mechanical Keyboard", "RGB backlit mechanical keyboard with tactile switches", "Electronics", "https://images.unsplash.com/photo-1601445638532-3c6f6c3aa1d6?w=400&h=400&fit=crop"},
	{"Monitor Stand", "Adjustable monitor stand with cable management and extra storage", "Accessories", "https://images.unsplash.com/photo-1527443224154-c4a3942d3acf?w=400&h=400&fit=crop"},
	{"Desk Lamp", "LED desk lamp with adjustable brightness and color temperature", "Accessories", "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop"},
	{"Laptop Stand", "Portable aluminum laptop stand for better ergonomics", "Accessories", "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=400&h=400&fit=crop"},
	{"Office Plant", "Low-maintenance office plant to brighten up your workspace", "Decor", "https://images.unsplash.com/photo-1416879595882-3373a0480b5b?w=400&h=400&fit=crop"},
}

// sample lists the products and quantities of the demo request, in order.
var sample = []struct {
	Name     string
	Quantity int
}{
	{"Office Desk Chair", 2},
	{"Standing Desk", 1},
	{"Wireless Mouse", 3},
}

type Params struct {
	DB       *gorm.DB
	Canvass  canvass.Service
	Seed     config.SeedConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
}

// Result reports what the run touched.
type Result struct {
	AdminID          string
	UserID           string
	ProductsCreated  int
	SampleRequestID  string
	SampleWasSkipped bool
}

// Run is safe to repeat: existing users and products are kept, and the sample
// request is only created when the demo user has none.
func Run(ctx context.Context, p Params) (*Result, error) {
	if p.DB == nil || p.Canvass == nil {
		return nil, errors.New("seed requires a database and canvass service")
	}

	admin, err := ensureUser(ctx, p.DB, AdminEmail, "Admin User", enums.RoleAdmin, p.Seed.AdminPassword, p.Password)
	if err != nil {
		return nil, err
	}
	user, err := ensureUser(ctx, p.DB, UserEmail, "John Doe", enums.RoleUser, p.Seed.UserPassword, p.Password)
	if err != nil {
		return nil, err
	}

	byName, created, err := ensureCatalog(ctx, p.DB)
	if err != nil {
		return nil, err
	}

	res := &Result{AdminID: admin.ID.String(), UserID: user.ID.String(), ProductsCreated: created}

	var existing int64
	if err := p.DB.WithContext(ctx).Model(&models.CanvassRequest{}).Where("user_id = ?", user.ID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("count sample requests: %w", err)
	}
	if existing > 0 {
		res.SampleWasSkipped = true
	} else {
		items := make([]canvass.ItemInput, 0, len(sample))
		for _, line := range sample {
			items = append(items, canvass.ItemInput{ProductID: byName[line.Name].ID, Quantity: line.Quantity})
		}
		notes := sampleNotes
		request, err := p.Canvass.Create(ctx, canvass.CreateInput{UserID: user.ID, Items: items, Notes: &notes})
		if err != nil {
			return nil, fmt.Errorf("create sample request: %w", err)
		}
		res.SampleRequestID = request.ID.String()
	}

	if p.Logger != nil {
		p.Logger.Info(p.Logger.WithFields(ctx, map[string]any{
			"admin_email":       AdminEmail,
			"user_email":        UserEmail,
			"products_created":  res.ProductsCreated,
			"sample_request_id": res.SampleRequestID,
		}), "seed completed")
	}
	return res, nil
}

func ensureUser(ctx context.Context, conn *gorm.DB, email, name string, role enums.Role, password string, cfg config.PasswordConfig) (*models.User, error) {
	var user models.User
	err := conn.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", email, err)
	}

	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		return nil, fmt.Errorf("hash password for %s: %w", email, err)
	}
	user = models.User{Email: email, Name: &name, PasswordHash: hash, Role: role}
	if err := conn.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", email, err)
	}
	return &user, nil
}

func ensureCatalog(ctx context.Context, conn *gorm.DB) (map[string]*models.Product, int, error) {
	byName := make(map[string]*models.Product, len(catalog))
	created := 0
	for _, entry := range catalog {
		var p models.Product
		err := conn.WithContext(ctx).Where("name = ?", entry.Name).First(&p).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			description, imageURL := entry.Description, entry.ImageURL
			p = models.Product{
				Name:        entry.Name,
				Description: &description,
				Category:    entry.Category,
				ImageURL:    &imageURL,
				Status:      enums.ProductStatusActive,
			}
			if err := conn.WithContext(ctx).Create(&p).Error; err != nil {
				return nil, 0, fmt.Errorf("create product %s: %w", entry.Name, err)
			}
			created++
		default:
			return nil, 0, fmt.Errorf("lookup product %s: %w", entry.Name, err)
		}
		byName[entry.Name] = &p
	}
	return byName, created, nil
}
