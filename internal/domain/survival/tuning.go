package survival

const (
	MaxHealth = 100

	DefaultInventorySize = 30
	DefaultStartingCoins = 500
	DefaultUserColor     = "#3b82f6"

	DefaultHealthDecayPerHour = 2
	DefaultXPPerHour          = 5
)
