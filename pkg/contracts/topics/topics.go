package topics

const (
	// Predições
	PredictionCreated = "prediction_created"
)
