package catalog

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/equipbot/internal/models"
)

func sample(
	name, category, description string,
	price float64,
	brand, model string,
	spec models.Specifications,
) models.EquipmentInput {
	available := true
	return models.EquipmentInput{
		Name:           name,
		Category:       category,
		Description:    &description,
		Price:          &price,
		Currency:       models.DefaultCurrency,
		Brand:          &brand,
		Model:          &model,
		Specifications: spec,
		Availability:   &available,
	}
}

// SampleEquipment is the demonstration catalog loaded by SeedSamples.
func SampleEquipment() []models.EquipmentInput {
	return []models.EquipmentInput{
		sample("iPhone 15 Pro", "Компьютеры и ноутбуки",
			"Новейший смартфон Apple с титановым корпусом и чипом A17 Pro",
			99990, "Apple", "iPhone 15 Pro", models.Specifications{
				"Экран":     "6.1 дюйма Super Retina XDR",
				"Процессор": "A17 Pro",
				"Память":    "128GB",
				"Камера":    "48MP основная + 12MP ультраширокая",
				"Батарея":   "До 23 часов видео",
			}),
		sample("MacBook Air M2", "Компьютеры и ноутбуки",
			"Ультратонкий ноутбук с чипом M2 и дисплеем Liquid Retina",
			119990, "Apple", "MacBook Air M2", models.Specifications{
				"Экран":     "13.6 дюйма Liquid Retina",
				"Процессор": "Apple M2",
				"RAM":       "8GB",
				"SSD":       "256GB",
				"Вес":       "1.24 кг",
			}),
		sample("Dell PowerEdge R750", "Серверное оборудование",
			"Сервер 1U с процессорами Intel Xeon 3-го поколения",
			450000, "Dell", "PowerEdge R750", models.Specifications{
				"Процессор":   "2x Intel Xeon Silver 4314",
				"RAM":         "32GB DDR4",
				"Диски":       "2x 480GB SSD",
				"Сеть":        "2x 1Gb Ethernet",
				"Форм-фактор": "1U",
			}),
		sample("Cisco Catalyst 2960-X", "Сетевое оборудование",
			"Коммутатор уровня доступа с поддержкой PoE+",
			85000, "Cisco", "WS-C2960X-24TS-L", models.Specifications{
				"Порты":                  "24x 1Gb Ethernet + 4x SFP",
				"PoE":                    "PoE+ на всех портах",
				"Пропускная способность": "52 Gbps",
				"Управление":             "CLI, Web, SNMP",
			}),
		sample("HP LaserJet Pro M404n", "Принтеры и МФУ",
			"Монохромный лазерный принтер для офиса",
			15000, "HP", "LaserJet Pro M404n", models.Specifications{
				"Тип":             "Монохромный лазерный",
				"Скорость печати": "38 стр/мин",
				"Разрешение":      "1200x1200 dpi",
				"Подключение":     "USB, Ethernet, Wi-Fi",
			}),
		sample("Samsung Odyssey G7", "Мониторы и дисплеи",
			"Игровой монитор с изогнутым экраном 32 дюйма",
			45000, "Samsung", "LC32G75TQSRXCI", models.Specifications{
				"Диагональ":          "32 дюйма",
				"Разрешение":         "2560x1440 (QHD)",
				"Частота обновления": "240 Гц",
				"Тип панели":         "VA",
				"Изгиб":              "1000R",
			}),
		sample("Intel Core i7-13700K", "Комплектующие",
			"Процессор Intel 13-го поколения с 16 ядрами",
			35000, "Intel", "Core i7-13700K", models.Specifications{
				"Ядра":                 "8P + 8E (16 ядер)",
				"Потоки":               "24",
				"Базовая частота":      "3.4 ГГц",
				"Максимальная частота": "5.4 ГГц",
				"TDP":                  "125W",
				"Сокет":                "LGA1700",
			}),
		sample("Logitech MX Master 3S", "Периферия",
			"Беспроводная мышь для профессионалов",
			8500, "Logitech", "MX Master 3S", models.Specifications{
				"Тип":         "Беспроводная",
				"Датчик":      "Darkfield 8000 DPI",
				"Батарея":     "До 70 дней",
				"Подключение": "Bluetooth, USB-A",
				"Кнопки":      "7 программируемых",
			}),
	}
}

// SeedSamples loads SampleEquipment into an empty catalog and returns the number
// of records created. A catalog that already holds records is left untouched.
func (s *Service) SeedSamples(ctx context.Context) (int, error) {
	existing, err := s.List(ctx, 0, 1)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.log.InfoContext(ctx, "Catalog is not empty, skipping sample data")
		return 0, nil
	}

	created := 0
	for _, input := range SampleEquipment() {
		if _, err = s.Create(ctx, input); err != nil {
			return created, fmt.Errorf("failed to seed %q: %w", input.Name, err)
		}
		created++
	}

	s.log.InfoContext(ctx, "Sample data loaded", "count", created)
	return created, nil
}
