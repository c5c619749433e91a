package config

import "github.com/grocerly/grocery-admin/pkg/domain/types"

const (
	mb = 1024 * 1024

	// MaxImageBytes is the upload limit of ordinary product/category images
	MaxImageBytes int64 = 5 * mb
	// MaxBannerBytes is the upload limit of home-page banners and animations
	MaxBannerBytes int64 = 10 * mb
)

func image(id, label, upload string, maxBytes int64, mime string, required, multiple bool) FieldDefinition {
	return FieldDefinition{
		ID:       id,
		Label:    label,
		Type:     types.FieldTypeImage,
		Required: required,
		Image: &ImageSpec{
			UploadName: upload,
			MaxBytes:   maxBytes,
			MimePrefix: mime,
			Multiple:   multiple,
		},
	}
}

// DefaultSchemas returns the built-in admin screens
func DefaultSchemas() []*FormSchema {
	return []*FormSchema{
		{
			Resource: types.ResourceCategory,
			Title:    "Category",
			Path:     "/category",
			Fields: []FieldDefinition{
				{ID: "name", Label: "Name", Type: types.FieldTypeText, Required: true},
				{ID: "description", Label: "Description", Type: types.FieldTypeText},
				image("image", "Image", "image", MaxImageBytes, "image/", true, false),
			},
		},
		{
			Resource: types.ResourceCustomer,
			Title:    "Customer",
			Path:     "/customer",
			Fields: []FieldDefinition{
				{ID: "name", Label: "Name", Type: types.FieldTypeText, Required: true},
				{ID: "email", Label: "Email", Type: types.FieldTypeEmail, Required: true},
				{ID: "phone", Label: "Phone", Type: types.FieldTypeText, Required: true},
				{ID: "address", Label: "Address", Type: types.FieldTypeText},
				{ID: "status", Label: "Status", Type: types.FieldTypeEnum, Required: true, Options: []string{"active", "blocked"}},
			},
		},
		{
			Resource: types.ResourceDeal,
			Title:    "Deal",
			Path:     "/deal",
			Fields: []FieldDefinition{
				{ID: "title", Label: "Title", Type: types.FieldTypeText, Required: true},
				{ID: "description", Label: "Description", Type: types.FieldTypeText},
				{ID: "originalPrice", Label: "Original price", Type: types.FieldTypePrice, Required: true, Positive: true},
				{ID: "offerPrice", Label: "Offer price", Type: types.FieldTypePrice, Required: true, Positive: true},
				{ID: "discount", Label: "Discount", Type: types.FieldTypeNumber},
				{ID: "startDate", Label: "Start date", Type: types.FieldTypeDate, Required: true},
				{ID: "startTime", Label: "Start time", Type: types.FieldTypeTime, Required: true},
				{ID: "endDate", Label: "End date", Type: types.FieldTypeDate, Required: true},
				{ID: "endTime", Label: "End time", Type: types.FieldTypeTime, Required: true},
				image("image", "Image", "image", MaxImageBytes, "image/", true, false),
			},
			LessThan: []LessThanRule{{Field: "offerPrice", Than: "originalPrice"}},
			Schedule: &ScheduleRule{StartDate: "startDate", StartTime: "startTime", EndDate: "endDate", EndTime: "endTime"},
			Discount: &DiscountRule{Offer: "offerPrice", Original: "originalPrice", Target: "discount"},
		},
		{
			Resource: types.ResourceHomeOffer,
			Title:    "Home offer",
			Path:     "/home-offer",
			Fields: []FieldDefinition{
				{ID: "title", Label: "Title", Type: types.FieldTypeText, Required: true},
				{ID: "subtitle", Label: "Subtitle", Type: types.FieldTypeText},
				{ID: "buttonText", Label: "Button text", Type: types.FieldTypeText},
				{ID: "status", Label: "Status", Type: types.FieldTypeEnum, Required: true, Options: []string{"active", "inactive"}},
				image("backgroundImage", "Background image", "backgroundImage", MaxBannerBytes, "image/", true, false),
				image("gif", "Animation", "gif", MaxBannerBytes, "image/gif", false, false),
			},
		},
		{
			Resource: types.ResourceProduct,
			Title:    "Product",
			Path:     "/product",
			Fields: []FieldDefinition{
				{ID: "name", Label: "Name", Type: types.FieldTypeText, Required: true},
				{ID: "category", Label: "Category", Type: types.FieldTypeText, Required: true},
				{ID: "description", Label: "Description", Type: types.FieldTypeText},
				{ID: "price", Label: "Price", Type: types.FieldTypePrice, Required: true, Positive: true},
				{ID: "stock", Label: "Stock", Type: types.FieldTypeNumber, Required: true},
				{ID: "unit", Label: "Unit", Type: types.FieldTypeEnum, Required: true, Options: []string{"piece", "kg", "g", "l", "ml", "pack"}},
				image("images", "Images", "images", MaxImageBytes, "image/", true, true),
			},
		},
		{
			Resource: types.ResourceSubAdmin,
			Title:    "Sub-admin",
			Path:     "/admin/sub-admin",
			Fields: []FieldDefinition{
				{ID: "name", Label: "Name", Type: types.FieldTypeText, Required: true},
				{ID: "email", Label: "Email", Type: types.FieldTypeEmail, Required: true},
				{ID: "password", Label: "Password", Type: types.FieldTypeText, RequiredOnCreate: true},
				{ID: "role", Label: "Role", Type: types.FieldTypeEnum, Required: true, Options: []string{"manager", "support", "editor"}},
			},
		},
		{
			Resource: types.ResourceCoinSetting,
			Title:    "Coin setting",
			Path:     "/admin/coin-setting",
			Fields: []FieldDefinition{
				{ID: "coinsPerOrder", Label: "Coins per order", Type: types.FieldTypeNumber, Required: true, Positive: true},
				{ID: "coinValue", Label: "Coin value", Type: types.FieldTypePrice, Required: true, Positive: true},
				{ID: "minRedeemPoints", Label: "Minimum redeem points", Type: types.FieldTypeNumber, Required: true, Positive: true},
			},
		},
	}
}
