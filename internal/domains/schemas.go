package domains

import "clinicsetup/domain/schema"

// Entity schemas for every collection held by a setup session.

var membershipSchema = schema.EntitySchema{
	Name: "membership",
	Fields: []schema.Field{
		{Name: "membership_name", Type: schema.TypeString, Required: true, Identity: true},
		{Name: "discount_percentage", Type: schema.TypeNumber},
		{
			Name:     "payment_frequency",
			Type:     schema.TypeString,
			Required: true,
			Enum:     []string{"monthly", "yearly", "both"},
			Synonyms: map[string]string{
				"month":              "monthly",
				"monthly":            "monthly",
				"annual":             "yearly",
				"annually":           "yearly",
				"year":               "yearly",
				"yearly":             "yearly",
				"monthly and yearly": "both",
				"monthly/yearly":     "both",
			},
			Default: "monthly",
		},
		{Name: "setup_fee", Type: schema.TypeNumber},
		{Name: "monthly_fee", Type: schema.TypeNumber},
		{Name: "yearly_fee", Type: schema.TypeNumber},
		{Name: "membership_agreement", Type: schema.TypeString},
		{Name: "add_to_wallet", Type: schema.TypeBoolean},
		{Name: "show_on_portal", Type: schema.TypeBoolean},
		{Name: "discounts_or_free_items", Type: schema.TypeBoolean},
		{Name: "membership_description", Type: schema.TypeString},
		{Name: "free_monthly_products", Type: schema.TypeString},
	},
}

var packageSchema = schema.EntitySchema{
	Name: "package",
	Fields: []schema.Field{
		{Name: "discount_name", Type: schema.TypeString, Required: true, Identity: true},
		{
			Name:     "discount_type",
			Type:     schema.TypeString,
			Required: true,
			Enum:     []string{"percentage", "fixed", "package"},
			Synonyms: map[string]string{
				"percent":      "percentage",
				"%":            "percentage",
				"fixed amount": "fixed",
				"amount":       "fixed",
				"dollar":       "fixed",
				"$":            "fixed",
				"bundle":       "package",
			},
		},
		{Name: "discount_percentage", Type: schema.TypeNumber, Nullable: true},
		{Name: "discount_amount", Type: schema.TypeNumber, Nullable: true},
		{Name: "package_price", Type: schema.TypeNumber, Nullable: true},
		{Name: "member_price", Type: schema.TypeNumber, Nullable: true},
		{
			Name:     "apply_to",
			Type:     schema.TypeString,
			Required: true,
			Enum:     []string{"all_products", "selected_products"},
			Synonyms: map[string]string{
				"all":        "all_products",
				"everything": "all_products",
				"products":   "selected_products",
				"categories": "selected_products",
				"selected":   "selected_products",
				"specific":   "selected_products",
			},
		},
		{Name: "included_products", Type: schema.TypeStringArray},
		{
			Name:     "customer_availability",
			Type:     schema.TypeString,
			Enum:     []string{"all", "members_only"},
			Synonyms: map[string]string{
				"members":     "members_only",
				"member only": "members_only",
				"everyone":    "all",
			},
		},
		{Name: "package_description", Type: schema.TypeString, Nullable: true},
		{Name: "locations", Type: schema.TypeStringArray},
		{Name: "providers", Type: schema.TypeStringArray},
		{Name: "start_date", Type: schema.TypeString, Required: true, Description: "YYYY-MM-DD"},
		{Name: "end_date", Type: schema.TypeString, Required: true, Description: "YYYY-MM-DD"},
	},
}

var staffSchema = schema.EntitySchema{
	Name: "staff_member",
	Fields: []schema.Field{
		{Name: "first_name", Type: schema.TypeString, Required: true, Identity: true},
		{Name: "last_name", Type: schema.TypeString, Required: true, Identity: true},
		{Name: "email", Type: schema.TypeString, Required: true},
		{Name: "phone", Type: schema.TypeString, Required: true},
		{
			Name:     "role",
			Type:     schema.TypeString,
			Required: true,
			Enum:     []string{"provider", "admin", "front_desk", "medical_director"},
			Synonyms: map[string]string{
				"nurse":            "provider",
				"injector":         "provider",
				"practitioner":     "provider",
				"esthetician":      "provider",
				"administrator":    "admin",
				"manager":          "admin",
				"office manager":   "admin",
				"receptionist":     "front_desk",
				"reception":        "front_desk",
				"front desk":       "front_desk",
				"medical director": "medical_director",
				"director":         "medical_director",
			},
		},
		{Name: "can_accept_tips", Type: schema.TypeBoolean},
		{Name: "is_provider", Type: schema.TypeBoolean},
		{Name: "requires_medical_director", Type: schema.TypeBoolean},
		{Name: "available_for_booking", Type: schema.TypeBoolean},
		{Name: "online_booking_enabled", Type: schema.TypeBoolean},
		{Name: "photo_url", Type: schema.TypeString},
		{Name: "bio", Type: schema.TypeString},
		{Name: "schedule", Type: schema.TypeSchedule, Description: "Weekly schedule, times in 24 hour HH:MM"},
		{Name: "assigned_locations", Type: schema.TypeStringArray},
	},
}

var serviceSchema = schema.EntitySchema{
	Name: "service",
	Fields: []schema.Field{
		{Name: "service_category", Type: schema.TypeString, Required: true},
		{Name: "service_name", Type: schema.TypeString, Required: true, Identity: true},
		{
			Name:     "service_type",
			Type:     schema.TypeString,
			Required: true,
			Enum:     []string{"virtual", "inperson"},
			Synonyms: map[string]string{
				"online":     "virtual",
				"telehealth": "virtual",
				"video":      "virtual",
				"in person":  "inperson",
				"in-person":  "inperson",
				"office":     "inperson",
				"clinic":     "inperson",
			},
			Default: "inperson",
		},
		{Name: "service_duration", Type: schema.TypeNumber, Required: true, Default: 30.0, Description: "Minutes"},
		{Name: "providers", Type: schema.TypeStringArray},
		{Name: "available_clinics", Type: schema.TypeStringArray},
		{Name: "online_booking_enabled", Type: schema.TypeBoolean, Default: true},
		{Name: "description", Type: schema.TypeString},
		{Name: "capture_card", Type: schema.TypeBoolean},
		{Name: "deposit_amount", Type: schema.TypeNumber},
		{Name: "incompatible_services", Type: schema.TypeStringArray},
	},
}

var equipmentSchema = schema.EntitySchema{
	Name: "equipment",
	Fields: []schema.Field{
		{Name: "name", Type: schema.TypeString, Required: true, Identity: true},
		{Name: "clinic", Type: schema.TypeString, Required: true},
		{Name: "schedule", Type: schema.TypeSchedule, Required: true},
		{Name: "required_services", Type: schema.TypeStringArray, Required: true},
		{Name: "cleanup_time", Type: schema.TypeNumber, Required: true, Description: "Cleanup minutes after each use"},
	},
}

var resourceSchema = schema.EntitySchema{
	Name: "resource",
	Fields: []schema.Field{
		{Name: "name", Type: schema.TypeString, Required: true, Identity: true},
		{Name: "clinic", Type: schema.TypeString, Required: true},
		{Name: "type", Type: schema.TypeString, Required: true},
		{Name: "schedule", Type: schema.TypeSchedule, Required: true},
		{Name: "required_services", Type: schema.TypeStringArray, Required: true},
	},
}

var inventorySchema = schema.EntitySchema{
	Name: "inventory_item",
	Fields: []schema.Field{
		{Name: "category", Type: schema.TypeString, Required: true},
		{Name: "product_name", Type: schema.TypeString, Required: true, Identity: true},
		{Name: "cost_to_company", Type: schema.TypeNumber, Required: true},
		{Name: "price", Type: schema.TypeNumber, Required: true},
		{Name: "member_price", Type: schema.TypeNumber, Required: true},
		{Name: "tax", Type: schema.TypeNumber, Required: true, Description: "Tax percentage"},
		{Name: "units", Type: schema.TypeNumber, Default: 0.0},
		{Name: "description", Type: schema.TypeString},
	},
}

var businessInformationSchema = schema.EntitySchema{
	Name: "business_information",
	Fields: []schema.Field{
		{Name: "business_name", Type: schema.TypeString, Required: true, Identity: true},
		{Name: "street_address", Type: schema.TypeString, Required: true},
		{Name: "street_address_line_2", Type: schema.TypeString},
		{Name: "city", Type: schema.TypeString, Required: true},
		{Name: "state", Type: schema.TypeString, Required: true},
		{Name: "postal_code", Type: schema.TypeString, Required: true},
		{Name: "country", Type: schema.TypeString, Required: true},
		{Name: "business_website", Type: schema.TypeString},
		{Name: "business_hours", Type: schema.TypeBusinessHours, Required: true},
		{Name: "logo_url", Type: schema.TypeString},
		{Name: "owner_first_name", Type: schema.TypeString, Required: true},
		{Name: "owner_last_name", Type: schema.TypeString, Required: true},
		{Name: "email_id", Type: schema.TypeString, Required: true},
		{Name: "contact_number_1", Type: schema.TypeString, Required: true},
	},
}

var clinicLocationSchema = schema.EntitySchema{
	Name: "clinic_location",
	Fields: []schema.Field{
		{Name: "name", Type: schema.TypeString, Required: true, Identity: true},
		{Name: "street_address", Type: schema.TypeString, Required: true},
		{Name: "street_address_line_2", Type: schema.TypeString},
		{Name: "city", Type: schema.TypeString, Required: true},
		{Name: "state", Type: schema.TypeString, Required: true},
		{Name: "postal_code", Type: schema.TypeString, Required: true},
		{Name: "country", Type: schema.TypeString, Required: true, Default: "United States"},
		{Name: "phone", Type: schema.TypeString, Required: true},
		{Name: "notification_sms", Type: schema.TypeString},
		{Name: "notification_emails", Type: schema.TypeString},
		{
			Name:     "online_booking_type",
			Type:     schema.TypeString,
			Required: true,
			Enum:     []string{"both", "booking_only", "ecommerce_only", "none"},
			Default:  "none",
		},
		{Name: "accepts_tips", Type: schema.TypeBoolean},
	},
}
