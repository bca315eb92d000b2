package catalog

import "github.com/fjod/decohome/internal/domain"

// DefaultProducts is the catalog used when neither a shared link nor
// storage provides one.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "prod_01",
			Name:        "Reloj de Pared Romano",
			Description: "Elegante reloj de pared con números romanos y un acabado en madera natural. Un toque clásico para cualquier salón.",
			Price:       49.99,
			ImageURL:    "https://picsum.photos/seed/novar1/600/600",
		},
		{
			ID:          "prod_02",
			Name:        "Juego de Frascos de Cocina",
			Description: "Set de frascos de vidrio con tapas de madera de acacia. Ideales para almacenar alimentos secos con estilo.",
			Price:       34.50,
			ImageURL:    "https://picsum.photos/seed/novar2/600/600",
		},
		{
			ID:          "prod_03",
			Name:        "Centro de Mesa de Cerámica",
			Description: "Cuenco de cerámica negra con borde en tono crudo. Perfecto como frutero o como pieza decorativa central.",
			Price:       29.99,
			ImageURL:    "https://picsum.photos/seed/novar3/600/600",
		},
		{
			ID:          "prod_04",
			Name:        "Copa de Postre Estriada",
			Description: "Copa de vidrio ahumado con diseño estriado vertical. Aporta un toque vintage y sofisticado a tus postres.",
			Price:       8.99,
			ImageURL:    "https://picsum.photos/seed/novar4/600/600",
		},
		{
			ID:          "prod_05",
			Name:        "Reloj Fases Lunares",
			Description: "Reloj de pared minimalista en color negro que representa las fases de la luna. Ideal para un ambiente moderno y místico.",
			Price:       45.00,
			ImageURL:    "https://picsum.photos/seed/novar5/600/600",
		},
		{
			ID:          "prod_06",
			Name:        "Paneles Decorativos de Madera",
			Description: "Dúo de paneles de madera calada con diseños orgánicos. Aportan textura y calidez a cualquier pared.",
			Price:       59.90,
			ImageURL:    "https://picsum.photos/seed/novar6/600/600",
		},
		{
			ID:          "prod_07",
			Name:        "Colgador de Llaves \"Home\"",
			Description: "Práctico y decorativo colgador de llaves de madera con la frase \"Home is my happy place\". Ganchos dorados.",
			Price:       19.99,
			ImageURL:    "https://picsum.photos/seed/novar7/600/600",
		},
		{
			ID:          "prod_08",
			Name:        "Cubiertos Negros Martillados",
			Description: "Set de cubiertos de diseño en color negro con una textura martillada única en los mangos. Elegancia en tu mesa.",
			Price:       42.00,
			ImageURL:    "https://picsum.photos/seed/novar8/600/600",
		},
	}
}
