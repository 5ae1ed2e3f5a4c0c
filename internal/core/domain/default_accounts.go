package domain

// AccountTemplate describes an account of the default chart of accounts.
type AccountTemplate struct {
	Code           string
	Name           string
	AccountType    AccountType
	Classification Classification
	Description    string
}

// DefaultChartOfAccounts is the starter chart seeded into an empty ledger.
var DefaultChartOfAccounts = []AccountTemplate{
	{"1001", "Cash", Asset, CurrentAsset, "Cash on hand"},
	{"1002", "Bank Account", Asset, CurrentAsset, "Main business bank account"},
	{"1200", "Accounts Receivable", Asset, CurrentAsset, "Amounts owed by customers"},
	{"1300", "Inventory", Asset, CurrentAsset, "Goods held for sale"},
	{"1500", "Office Equipment", Asset, FixedAsset, "Computers, furniture and office equipment"},
	{"1600", "Vehicles", Asset, FixedAsset, "Business vehicles"},
	{"2001", "Accounts Payable", Liability, CurrentLiability, "Amounts owed to suppliers"},
	{"2002", "Credit Card", Liability, CurrentLiability, "Business credit card balance"},
	{"2100", "GST Payable", Liability, CurrentLiability, "GST collected and owed"},
	{"2500", "Bank Loan", Liability, LongTermLiability, "Long-term bank financing"},
	{"3001", "Owner's Capital", Equity, OwnerEquity, "Capital contributed by the owner"},
	{"3900", "Retained Earnings", Equity, RetainedEarnings, "Accumulated profits"},
	{"4001", "Sales Revenue", Income, OperatingRevenue, "Revenue from sales of goods"},
	{"4002", "Service Revenue", Income, OperatingRevenue, "Revenue from services"},
	{"4900", "Interest Income", Income, NonOperatingRevenue, "Interest earned"},
	{"5001", "Rent Expense", Expense, OperatingExpense, "Office and premises rent"},
	{"5002", "Salaries Expense", Expense, OperatingExpense, "Employee salaries and wages"},
	{"5003", "Utilities Expense", Expense, OperatingExpense, "Electricity, water and internet"},
	{"5100", "Office Supplies", Expense, OperatingExpense, "Stationery and consumables"},
	{"5900", "Bank Charges", Expense, NonOperatingExpense, "Bank fees and charges"},
	{"5950", "Income Tax Expense", Expense, Tax, "Income tax"},
}
