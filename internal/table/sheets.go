package table

// Exact sheet names of the supplier master extract. The WYT3 name is
// truncated to 31 characters by the exporting system; it is matched verbatim.
const (
	SheetGeneral         = "BUT000 - General"
	SheetRole            = "BUT100 - Role"
	SheetAddress         = "ADRC - Address"
	SheetSupplierGeneral = "LFA1 - Supplier General"
	SheetCompanyCode     = "LFB1 - Company Code (Supplier)"
	SheetPurchasingOrg   = "LFM1 - Purchasing Org Data"
	SheetPartnerFunction = "WYT3 - Partner Function (Suppli"
)

// RequiredSheets lists the sheets every extract must contain. A missing
// required sheet aborts the run before any mutation.
func RequiredSheets() []string {
	return []string{
		SheetGeneral,
		SheetRole,
		SheetAddress,
		SheetSupplierGeneral,
		SheetCompanyCode,
	}
}

// OptionalSheets lists the sheets processed only when present.
func OptionalSheets() []string {
	return []string{
		SheetPurchasingOrg,
		SheetPartnerFunction,
	}
}

// VisibleSheets lists the sheets left visible in the output workbook. The
// role sheet is processed (role annotation) but hidden: it carries nothing an
// upload reviewer acts on.
func VisibleSheets() []string {
	return []string{
		SheetGeneral,
		SheetAddress,
		SheetSupplierGeneral,
		SheetCompanyCode,
		SheetPurchasingOrg,
		SheetPartnerFunction,
	}
}
