package schema

// tradeColumns is the shared column set of the per-trade tables. The live
// table mirrors the historical one exactly; rows migrate between them at the
// day boundary.
func tradeColumns() []Column {
	return []Column{
		{Name: "order_id", Semantic: SemanticIdentifier, Description: "primary key"},
		{Name: "ordertime", Semantic: SemanticTimestamp, Description: "when the order was placed; use DATE(ordertime) for date filtering"},
		{Name: "strategy_name", Semantic: SemanticCategory, Description: "trading strategy"},
		{Name: "broker", Semantic: SemanticCategory, Description: "broker name"},
		{Name: "account_id", Semantic: SemanticIdentifier, Description: "account identifier"},
		{Name: "mode", Semantic: SemanticCategory, Description: "PAPER or PROD"},
		{Name: "equity", Semantic: SemanticMoney, Description: "equity amount"},
		{Name: "underlying", Semantic: SemanticCategory, Description: "underlying asset, e.g. NIFTY"},
		{Name: "ticker", Semantic: SemanticIdentifier, Description: "ticker symbol"},
		{Name: "side", Semantic: SemanticCategory, Description: "BUY, SELL or short"},
		{Name: "lots", Semantic: SemanticCount, Description: "number of lots"},
		{Name: "buyprice", Semantic: SemanticMoney, Description: "buy price"},
		{Name: "sellprice", Semantic: SemanticMoney, Description: "sell price"},
		{Name: "buy_slippage_value", Semantic: SemanticMoney, Description: "slippage cost on buy"},
		{Name: "sell_slippage_value", Semantic: SemanticMoney, Description: "slippage cost on sell"},
		{Name: "mtm", Semantic: SemanticMoney, Description: "mark to market P&L"},
		{Name: "realized", Semantic: SemanticMoney, Description: "realized profit/loss"},
		{Name: "total_pnl", Semantic: SemanticMoney, Description: "total profit and loss, primary P&L metric"},
		{Name: "quantity", Semantic: SemanticCount, Description: "order quantity"},
		{Name: "quantity_filled", Semantic: SemanticCount, Description: "quantity filled"},
		{Name: "quantity_exited", Semantic: SemanticCount, Description: "quantity exited"},
		{Name: "buytime", Semantic: SemanticTimestamp, Description: "when the position was bought"},
		{Name: "selltime", Semantic: SemanticTimestamp, Description: "when the position was sold; NULL means still open"},
	}
}

// Default returns the trading schema registry: all completed trades, the
// live intraday table and the daily per-strategy aggregate.
func Default() *Registry {
	reg, err := New([]Table{
		{
			Name:    "trading_all",
			Scope:   ScopeHistorical,
			Grain:   "one row per trade",
			Purpose: "all historical trading data; use for historical analysis",
			Columns: tradeColumns(),
		},
		{
			Name:    "trading_today",
			Scope:   ScopeLiveToday,
			Grain:   "one row per trade",
			Purpose: "only today's trades, emptied at end of day; use for today/current/live/intraday questions",
			Columns: tradeColumns(),
		},
		{
			Name:    "slip_positionlive_daily",
			Scope:   ScopeDailyAggregate,
			Grain:   "one row per broker, account, strategy and day",
			Purpose: "aggregated daily performance; use for win rates, strategy comparisons and ROI",
			Columns: []Column{
				{Name: "id", Semantic: SemanticIdentifier, Description: "primary key"},
				{Name: "broker", Semantic: SemanticCategory, Description: "broker name"},
				{Name: "account_id", Semantic: SemanticIdentifier, Description: "account identifier"},
				{Name: "strategy_name", Semantic: SemanticCategory, Description: "trading strategy"},
				{Name: "order_date", Semantic: SemanticTimestamp, Description: "trading date", DateOnly: true},
				{Name: "mode", Semantic: SemanticCategory, Description: "PAPER or PROD"},
				{Name: "equity", Semantic: SemanticMoney, Description: "max equity for the day"},
				{Name: "lots", Semantic: SemanticCount, Description: "total lots traded"},
				{Name: "buy_slippage_value", Semantic: SemanticMoney, Description: "total buy slippage"},
				{Name: "sell_slippage_value", Semantic: SemanticMoney, Description: "total sell slippage"},
				{Name: "mtm", Semantic: SemanticMoney, Description: "total mark to market"},
				{Name: "realized", Semantic: SemanticMoney, Description: "total realized P&L"},
				{Name: "total_pnl", Semantic: SemanticMoney, Description: "total profit/loss for the day"},
				{Name: "quantity", Semantic: SemanticCount, Description: "total quantity"},
				{Name: "quantity_filled", Semantic: SemanticCount, Description: "total quantity filled"},
				{Name: "quantity_exited", Semantic: SemanticCount, Description: "total quantity exited"},
				{Name: "trade_count", Semantic: SemanticCount, Description: "number of trades"},
				{Name: "profitable_count", Semantic: SemanticCount, Description: "number of profitable trades"},
				{Name: "last_refreshed", Semantic: SemanticTimestamp, Description: "when the aggregation was last run"},
			},
		},
	})
	if err != nil {
		// The builtin schema is validated by tests; this is unreachable.
		panic(err)
	}
	return reg
}
