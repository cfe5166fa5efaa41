package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// VectorSearch describes an Atlas $vectorSearch query followed by a
// projection of Fields plus the similarity score.
type VectorSearch struct {
	Index         string
	Path          string
	QueryVector   []float32
	NumCandidates int
	Limit         int
	Fields        []string
	ScoreField    string
}

func (v VectorSearch) Pipeline() mongo.Pipeline {
	project := bson.D{{Key: "_id", Value: 0}}
	for _, f := range v.Fields {
		project = append(project, bson.E{Key: f, Value: 1})
	}
	scoreField := v.ScoreField
	if scoreField == "" {
		scoreField = "score"
	}
	project = append(project, bson.E{Key: scoreField, Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}})

	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: v.Index},
			{Key: "path", Value: v.Path},
			{Key: "queryVector", Value: v.QueryVector},
			{Key: "numCandidates", Value: v.NumCandidates},
			{Key: "limit", Value: v.Limit},
		}}},
		{{Key: "$project", Value: project}},
	}
}
