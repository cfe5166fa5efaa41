package embeddings

import "go.mongodb.org/mongo-driver/bson/primitive"

// Record is the stored embedding of one local image.
type Record struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name     string             `bson:"name" json:"name"`
	Filename string             `bson:"filename" json:"filename"`
	Vector   []float32          `bson:"vector" json:"vector"`
}
