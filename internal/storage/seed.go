package storage

import "github.com/reclaimhq/reclaim/internal/model"

// Demonstration datasets, inserted once when a backend is found empty.

// sampleRemoteRows is the six-item dataset for a fresh remote table, in wire
// format so it inserts as-is.
func sampleRemoteRows() []map[string]any {
	return []map[string]any{
		{
			"type":           "lost",
			"title":          "iPhone 13 Pro",
			"category":       "electronics",
			"location":       "Central Park, NYC",
			"description":    "Black iPhone 13 Pro with a cracked screen protector. Lost near the main fountain area.",
			"image_url":      "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=400&h=300&fit=crop",
			"reporter_name":  "Sarah Johnson",
			"reporter_email": "sarah.j@email.com",
			"reporter_phone": "+1 (555) 123-4567",
			"created_at":     "2024-01-10T00:00:00Z",
		},
		{
			"type":           "found",
			"title":          "Brown Leather Wallet",
			"category":       "accessories",
			"location":       "Starbucks on 5th Avenue",
			"description":    "Brown leather wallet found on a table. Contains various cards but no ID visible.",
			"image_url":      "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400&h=300&fit=crop",
			"reporter_name":  "Mike Chen",
			"reporter_email": "mike.chen@email.com",
			"reporter_phone": "+1 (555) 987-6543",
			"created_at":     "2024-01-12T00:00:00Z",
		},
		{
			"type":           "lost",
			"title":          "Silver MacBook Pro",
			"category":       "electronics",
			"location":       "NYU Library",
			"description":    "Silver MacBook Pro 14-inch with stickers. Left in the study area on the 3rd floor.",
			"image_url":      "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400&h=300&fit=crop",
			"reporter_name":  "Emily Davis",
			"reporter_email": "emily.davis@email.com",
			"reporter_phone": "+1 (555) 456-7890",
			"created_at":     "2024-01-08T00:00:00Z",
		},
		{
			"type":           "found",
			"title":          "Red Backpack",
			"category":       "bags",
			"location":       "Bryant Park",
			"description":    "Red hiking backpack found on a bench. Contains some books and a water bottle.",
			"image_url":      "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400&h=300&fit=crop",
			"reporter_name":  "Alex Rodriguez",
			"reporter_email": "alex.r@email.com",
			"reporter_phone": "+1 (555) 321-9876",
			"created_at":     "2024-01-11T00:00:00Z",
		},
		{
			"type":           "lost",
			"title":          "Gold Wedding Ring",
			"category":       "accessories",
			"location":       "Brooklyn Bridge",
			"description":    "Gold wedding ring with small diamond. Lost while taking photos on the bridge.",
			"image_url":      "https://images.unsplash.com/photo-1605100804763-247f67b3557e?w=400&h=300&fit=crop",
			"reporter_name":  "Jennifer White",
			"reporter_email": "jennifer.white@email.com",
			"reporter_phone": "+1 (555) 555-1234",
			"created_at":     "2024-01-09T00:00:00Z",
		},
		{
			"type":           "found",
			"title":          "Blue Baseball Cap",
			"category":       "clothing",
			"location":       "Times Square",
			"description":    "Blue Yankees baseball cap found near the TKTS stairs.",
			"image_url":      "https://images.unsplash.com/photo-1588850561407-ed78c282e89b?w=400&h=300&fit=crop",
			"reporter_name":  "David Kim",
			"reporter_email": "david.kim@email.com",
			"reporter_phone": "+1 (555) 777-8888",
			"created_at":     "2024-01-13T00:00:00Z",
		},
	}
}

// sampleLocalItems is the two-item dataset for an empty local store.
func sampleLocalItems() []model.Item {
	return []model.Item{
		{
			ID:            newItemID(),
			Type:          model.TypeLost,
			Title:         "iPhone 13 Pro",
			Category:      "electronics",
			Location:      "Central Park, NYC",
			Description:   "Black iPhone 13 Pro with a cracked screen protector. Lost near the main fountain area.",
			Image:         strPtr("https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=400&h=300&fit=crop"),
			ReporterName:  "Sarah Johnson",
			ReporterEmail: "sarah.j@email.com",
			ReporterPhone: strPtr("+1 (555) 123-4567"),
			DateReported:  "2024-01-10T00:00:00Z",
		},
		{
			ID:            newItemID(),
			Type:          model.TypeFound,
			Title:         "Brown Leather Wallet",
			Category:      "accessories",
			Location:      "Starbucks on 5th Avenue",
			Description:   "Brown leather wallet found on a table. Contains various cards but no ID visible.",
			Image:         strPtr("https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400&h=300&fit=crop"),
			ReporterName:  "Mike Chen",
			ReporterEmail: "mike.chen@email.com",
			ReporterPhone: strPtr("+1 (555) 987-6543"),
			DateReported:  "2024-01-12T00:00:00Z",
		},
	}
}

func strPtr(s string) *string { return &s }
