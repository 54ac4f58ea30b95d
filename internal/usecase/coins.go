package usecase

import "CoinDeck/internal/domain/models"

// availableCoins is the static coin universe offered by the dashboard
// pickers.
var availableCoins = []models.CoinOption{
	{Value: "BTC/USDT", Label: "Bitcoin (BTC)"},
	{Value: "ETH/USDT", Label: "Ethereum (ETH)"},
	{Value: "SOL/USDT", Label: "Solana (SOL)"},
	{Value: "XRP/USDT", Label: "Ripple (XRP)"},
	{Value: "ADA/USDT", Label: "Cardano (ADA)"},
	{Value: "DOGE/USDT", Label: "Dogecoin (DOGE)"},
	{Value: "SHIB/USDT", Label: "Shiba Inu (SHIB)"},
	{Value: "PEPE/USDT", Label: "Pepe (PEPE)"},
	{Value: "MATIC/USDT", Label: "Polygon (MATIC)"},
	{Value: "DOT/USDT", Label: "Polkadot (DOT)"},
	{Value: "LINK/USDT", Label: "Chainlink (LINK)"},
	{Value: "AVAX/USDT", Label: "Avalanche (AVAX)"},
	{Value: "LTC/USDT", Label: "Litecoin (LTC)"},
	{Value: "UNI/USDT", Label: "Uniswap (UNI)"},
	{Value: "ATOM/USDT", Label: "Cosmos (ATOM)"},
	{Value: "XLM/USDT", Label: "Stellar (XLM)"},
	{Value: "NEAR/USDT", Label: "NEAR Protocol (NEAR)"},
	{Value: "APT/USDT", Label: "Aptos (APT)"},
	{Value: "ARB/USDT", Label: "Arbitrum (ARB)"},
	{Value: "OP/USDT", Label: "Optimism (OP)"},
	{Value: "INJ/USDT", Label: "Injective (INJ)"},
}

// AvailableCoins returns the selectable coin list.
func AvailableCoins() []models.CoinOption {
	return append([]models.CoinOption(nil), availableCoins...)
}

// DefaultSymbols returns the pair names of the available coins.
func DefaultSymbols() []string {
	out := make([]string, len(availableCoins))
	for i, c := range availableCoins {
		out[i] = c.Value
	}
	return out
}
