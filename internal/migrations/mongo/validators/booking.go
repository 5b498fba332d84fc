package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"listing_id",
			"room_id",
			"check_in",
			"check_out",
			"guests",
			"total_price",
			"status",
			"payment_status",
			"payment_method",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"listing_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"room_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"guests": bson.M{
				"bsonType": "object",
				"required": []string{"adults"},
				"properties": bson.M{
					"adults": bson.M{
						"bsonType": "int",
						"minimum":  1,
						"maximum":  50,
					},
					"children": bson.M{
						"bsonType": "int",
						"minimum":  0,
						"maximum":  50,
					},
				},
			},

			"total_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
					"completed",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"paid",
					"refunded",
					"failed",
				},
			},

			"payment_method": bson.M{
				"bsonType": "string",
				"enum": []string{
					"credit_card",
					"debit_card",
					"paypal",
					"bank_transfer",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
