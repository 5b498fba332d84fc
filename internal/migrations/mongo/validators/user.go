package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
			"phone",
			"role",
			"is_active",
			"is_verified",
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
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType": "string",
				"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
			},

			"phone": bson.M{
				"bsonType":  "string",
				"minLength": 5,
				"maxLength": 20,
			},

			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"user", "admin"},
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"is_verified": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
