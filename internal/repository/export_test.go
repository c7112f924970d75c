package repository

const (
	InsertEquipmentSQL          = insertEquipmentSQL
	SelectEquipmentByIDSQL      = selectEquipmentByIDSQL
	SelectEquipmentForUpdateSQL = selectEquipmentForUpdateSQL
	UpdateEquipmentSQL          = updateEquipmentSQL
	DeleteEquipmentSQL          = deleteEquipmentSQL
	SelectCategoriesSQL         = selectCategoriesSQL
	SelectBrandsSQL             = selectBrandsSQL
	SelectCatalogTotalsSQL      = selectCatalogTotalsSQL
	SelectCategoryCountsSQL     = selectCategoryCountsSQL
	InsertUserSQL               = insertUserSQL
	SelectUserByTelegramIDSQL   = selectUserByTelegramIDSQL
	UpsertUserSQL               = upsertUserSQL
	EnsureAdminSQL              = ensureAdminSQL
)

var EquipmentColumns = []string{
	"id", "name", "category", "description", "price", "currency", "brand", "model",
	"specifications", "availability", "created_at", "updated_at",
}

var UserColumns = []string{"id", "telegram_id", "username", "first_name", "last_name", "is_admin", "created_at"}
