package listing

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Earnings struct {
	Period      string `bson:"period" json:"period"`
	Date        string `bson:"date" json:"date"`
	DocumentURL string `bson:"document_url" json:"document_url"`
}

// Corporation is one listed company. ID holds an ObjectID for stored documents
// and a plain string for sample data.
type Corporation struct {
	ID             any      `bson:"_id,omitempty" json:"_id,omitempty"`
	Company        string   `bson:"company" json:"company"`
	Rank           int      `bson:"rank" json:"rank"`
	Ticker         string   `bson:"ticker" json:"ticker"`
	IRPage         string   `bson:"ir_page" json:"ir_page"`
	LatestEarnings Earnings `bson:"latest_earnings" json:"latest_earnings"`
}

func (c Corporation) IDString() string {
	switch id := c.ID.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

const samplePeriod = "Q4 2024 (Full Year 2024)"

func sample(id, company string, rank int, ticker, domain, date string) Corporation {
	return Corporation{
		ID:      id,
		Company: company,
		Rank:    rank,
		Ticker:  ticker,
		IRPage:  "https://investors." + domain,
		LatestEarnings: Earnings{
			Period:      samplePeriod,
			Date:        date,
			DocumentURL: "https://" + domain + "/earnings/Q4_2024.pdf",
		},
	}
}

// SampleCorporations returns the fixed demo dataset in its declared order.
func SampleCorporations() []Corporation {
	return []Corporation{
		sample("sample_1", "TechCorp Industries", 1, "TECH", "techcorp.com", "February 15, 2025"),
		sample("sample_2", "Global Finance Ltd", 3, "GFL", "globalfinance.com", "January 28, 2025"),
		sample("sample_3", "Healthcare Solutions Inc", 5, "HSI", "healthcaresolutions.com", "February 5, 2025"),
		sample("sample_4", "Energy Systems Corp", 2, "ENR", "energysystems.com", "February 20, 2025"),
		sample("sample_5", "Retail Dynamics LLC", 8, "RTL", "retaildynamics.com", "March 1, 2025"),
		sample("sample_6", "Cloud Services Group", 4, "CLD", "cloudservices.com", "February 10, 2025"),
		sample("sample_7", "Manufacturing Pro Inc", 7, "MFG", "manufacturingpro.com", "January 22, 2025"),
		sample("sample_8", "Transportation Network Co", 9, "TRN", "transportation.com", "February 25, 2025"),
		sample("sample_9", "Biotechnology Ventures", 6, "BIO", "biotechnology.com", "February 18, 2025"),
		sample("sample_10", "Real Estate Holdings", 10, "REH", "realestate.com", "March 5, 2025"),
	}
}
