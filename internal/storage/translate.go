package storage

import "github.com/reclaimhq/reclaim/internal/model"

// appToWireNames is the single bidirectional field-name table between the
// app format (camelCase) and the remote table's wire format (snake_case).
// Both transform directions consult this table; the inverse is derived once.
var appToWireNames = map[string]string{
	"type":                  "type",
	"title":                 "title",
	"category":              "category",
	"location":              "location",
	"description":           "description",
	"availability":          "availability",
	"reward":                "reward",
	"image":                 "image_url",
	"reporterName":          "reporter_name",
	"reporterEmail":         "reporter_email",
	"reporterPhone":         "reporter_phone",
	"dateReported":          "created_at",
	"dateLost":              "date_lost",
	"dateFound":             "date_found",
	"currentLocation":       "current_location",
	"verificationQuestions": "verification_questions",
}

var wireToAppNames = func() map[string]string {
	inverse := make(map[string]string, len(appToWireNames))
	for app, wire := range appToWireNames {
		inverse[wire] = app
	}
	return inverse
}()

// toWire translates an app-format field map to wire format. Only known
// fields are carried over; absent fields stay absent (not nulled), which is
// what makes partial updates partial.
func toWire(app map[string]any) map[string]any {
	wire := make(map[string]any, len(app))
	for name, value := range app {
		if wireName, ok := appToWireNames[name]; ok {
			wire[wireName] = value
		}
	}
	return wire
}

// toApp translates a wire-format row to an app-format field map. Every
// mapped app field is present in the result, null when the row lacks it.
func toApp(wire map[string]any) map[string]any {
	app := make(map[string]any, len(appToWireNames))
	for name, wireName := range appToWireNames {
		app[name] = wire[wireName]
	}
	return app
}

// decodeItem builds an Item from a wire-format row. The id column is not
// part of the name table; it is the backend-assigned key and passes through
// unmapped.
func decodeItem(row map[string]any) model.Item {
	app := toApp(row)
	item := itemFromApp(app)
	item.ID = asString(row["id"])
	return item
}

// itemToApp flattens an Item into an app-format field map, including the
// null optionals.
func itemToApp(item model.Item) map[string]any {
	return map[string]any{
		"type":                  item.Type,
		"title":                 item.Title,
		"category":              item.Category,
		"location":              item.Location,
		"description":           item.Description,
		"image":                 fromPtr(item.Image),
		"reporterName":          item.ReporterName,
		"reporterEmail":         item.ReporterEmail,
		"reporterPhone":         fromPtr(item.ReporterPhone),
		"dateReported":          item.DateReported,
		"dateLost":              fromPtr(item.DateLost),
		"dateFound":             fromPtr(item.DateFound),
		"currentLocation":       fromPtr(item.CurrentLocation),
		"verificationQuestions": fromPtr(item.VerificationQuestions),
		"availability":          fromPtr(item.Availability),
		"reward":                fromPtr(item.Reward),
	}
}

// itemFromApp builds an Item from an app-format field map. Missing or null
// optionals become nil pointers.
func itemFromApp(app map[string]any) model.Item {
	return model.Item{
		Type:                  asString(app["type"]),
		Title:                 asString(app["title"]),
		Category:              asString(app["category"]),
		Location:              asString(app["location"]),
		Description:           asString(app["description"]),
		Image:                 asStringPtr(app["image"]),
		ReporterName:          asString(app["reporterName"]),
		ReporterEmail:         asString(app["reporterEmail"]),
		ReporterPhone:         asStringPtr(app["reporterPhone"]),
		DateReported:          asString(app["dateReported"]),
		DateLost:              asStringPtr(app["dateLost"]),
		DateFound:             asStringPtr(app["dateFound"]),
		CurrentLocation:       asStringPtr(app["currentLocation"]),
		VerificationQuestions: asStringPtr(app["verificationQuestions"]),
		Availability:          asStringPtr(app["availability"]),
		Reward:                asStringPtr(app["reward"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func fromPtr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
