package validators

import "go.mongodb.org/mongo-driver/bson"

var ListingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"description",
			"address",
			"contact_info",
			"rooms",
			"is_active",
			"owner_id",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"description": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 5000,
			},

			"address": bson.M{
				"bsonType": "object",
				"required": []string{"street", "city", "state", "country", "zip_code"},
				"properties": bson.M{
					"street":   bson.M{"bsonType": "string"},
					"city":     bson.M{"bsonType": "string"},
					"state":    bson.M{"bsonType": "string"},
					"country":  bson.M{"bsonType": "string"},
					"zip_code": bson.M{"bsonType": "string"},
				},
			},

			"contact_info": bson.M{
				"bsonType": "object",
				"required": []string{"phone", "email"},
			},

			"rooms": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"id", "type", "capacity", "price", "is_available"},
					"properties": bson.M{
						"type": bson.M{
							"bsonType": "string",
							"enum":     []string{"single", "double", "dormitory", "suite"},
						},
						"capacity": bson.M{
							"bsonType": "int",
							"minimum":  1,
							"maximum":  50,
						},
						"price": bson.M{
							"bsonType": []string{"double", "int", "long", "decimal"},
							"minimum":  0,
						},
					},
				},
			},

			"rating": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
				"maximum":  5,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
