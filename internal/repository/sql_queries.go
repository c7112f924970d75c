package repository

// SchemaSQL creates the equipment and users tables together with their lookup indexes.
// Every statement is idempotent.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS equipment (
    id             BIGSERIAL PRIMARY KEY,
    name           VARCHAR(255) NOT NULL,
    category       VARCHAR(100) NOT NULL,
    description    TEXT,
    price          DOUBLE PRECISION NOT NULL CHECK (price >= 0),
    currency       VARCHAR(10) NOT NULL DEFAULT 'RUB',
    brand          VARCHAR(100),
    model          VARCHAR(100),
    specifications TEXT,
    availability   BOOLEAN NOT NULL DEFAULT TRUE,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_equipment_name ON equipment (name);
CREATE INDEX IF NOT EXISTS idx_equipment_category ON equipment (category);
CREATE INDEX IF NOT EXISTS idx_equipment_created_at ON equipment (created_at);

CREATE TABLE IF NOT EXISTS users (
    id          BIGSERIAL PRIMARY KEY,
    telegram_id BIGINT NOT NULL UNIQUE,
    username    VARCHAR(100),
    first_name  VARCHAR(100),
    last_name   VARCHAR(100),
    is_admin    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const equipmentColumns = `id, name, category, description, price, currency, brand, model, ` +
	`specifications, availability, created_at, updated_at`

const insertEquipmentSQL = `
INSERT INTO equipment
    (name, category, description, price, currency, brand, model, specifications, availability, created_at, updated_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id;
`

const selectEquipmentByIDSQL = `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`

const selectEquipmentForUpdateSQL = selectEquipmentByIDSQL + ` FOR UPDATE`

const updateEquipmentSQL = `
UPDATE equipment SET
    name = $2,
    category = $3,
    description = $4,
    price = $5,
    currency = $6,
    brand = $7,
    model = $8,
    specifications = $9,
    availability = $10,
    updated_at = $11
WHERE id = $1;
`

const deleteEquipmentSQL = `DELETE FROM equipment WHERE id = $1`

const selectCategoriesSQL = `SELECT DISTINCT category FROM equipment ORDER BY category`

const selectBrandsSQL = `SELECT DISTINCT brand FROM equipment WHERE brand IS NOT NULL ORDER BY brand`

const selectCatalogTotalsSQL = `
SELECT
    count(*) AS "total",
    count(*) FILTER (WHERE availability) AS "available",
    count(DISTINCT brand) AS "brands"
FROM
    equipment;
`

const selectCategoryCountsSQL = `
SELECT
    category,
    count(*) AS "count"
FROM
    equipment
GROUP BY
    category
ORDER BY
    "count" DESC, category ASC;
`

const userColumns = `id, telegram_id, username, first_name, last_name, is_admin, created_at`

const insertUserSQL = `
INSERT INTO users (telegram_id, username, first_name, last_name, is_admin, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;
`

const selectUserByTelegramIDSQL = `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

// upsertUserSQL creates the user or refreshes the profile fields that were supplied.
// xmax is zero only for a freshly inserted row.
const upsertUserSQL = `
INSERT INTO users (telegram_id, username, first_name, last_name, is_admin, created_at)
VALUES ($1, $2, $3, $4, FALSE, $5)
ON CONFLICT (telegram_id) DO UPDATE SET
    username = COALESCE(EXCLUDED.username, users.username),
    first_name = COALESCE(EXCLUDED.first_name, users.first_name),
    last_name = COALESCE(EXCLUDED.last_name, users.last_name)
RETURNING ` + userColumns + `, (xmax = 0) AS inserted;
`

const ensureAdminSQL = `
INSERT INTO users (telegram_id, is_admin, created_at)
VALUES ($1, TRUE, $2)
ON CONFLICT (telegram_id) DO UPDATE SET is_admin = TRUE;
`
