package synth

// Override - курированные данные товара для конкретного файла изображения
type Override struct {
	Name        string
	Description string
}

// overrides - ручная таблица соответствий имя файла -> название/описание.
// Ключ сравнивается точно, с учетом регистра. Таблица не изменяется после загрузки.
var overrides = map[string]Override{
	"4d Fireproof.jpg": {
		Name:        "4-Drawer Fireproof Metal Cabinet",
		Description: "Four-drawer vertical filing cabinet with a one-hour fire rating. Full-extension drawers, central locking and a powder-coated steel body keep contracts and records safe.",
	},
	"3d Vertical Steel.jpg": {
		Name:        "3-Drawer Vertical Steel Cabinet",
		Description: "Compact three-drawer vertical cabinet for A4 and letter files. Anti-tilt mechanism and ball-bearing runners for daily heavy use.",
	},
	"OS-0231.jpg": {
		Name:        "Office Sofa Model OS-0231",
		Description: "Three-seat office sofa upholstered in hard-wearing fabric with a solid beech frame. Suited for lounges, waiting areas and break-out zones.",
	},
	"ED-1800L.jpg": {
		Name:        "L-Shaped Executive Desk ED-1800",
		Description: "Corner executive desk with an 1800 mm main top, integrated cable management and a lockable three-drawer pedestal.",
	},
	"Premium Executive Desk.jpg": {
		Name:        "Premium Executive Office Desk",
		Description: "Statement executive desk in walnut veneer with leather writing inlay, soft-close drawers and concealed power access.",
	},
	"ErgoFlex 500.png": {
		Name:        "ErgoFlex 500 Ergonomic Chair",
		Description: "Fully adjustable ergonomic chair with dynamic lumbar support, 4D armrests and a breathable mesh back for long working days.",
	},
	"ergo_mesh_pro.jpg": {
		Name:        "Ergo Mesh Pro Chair",
		Description: "High-back mesh chair with synchronized tilt, adjustable headrest and seat depth adjustment.",
	},
	"HA Desk Dual Motor.jpg": {
		Name:        "Height Adjustable Desk with Dual Motor",
		Description: "Electric sit-stand desk with two motors, memory presets and anti-collision sensor. Height range 620 to 1270 mm.",
	},
	"CT-3600 Boat Shaped.jpg": {
		Name:        "Boat-Shaped Conference Table CT-3600",
		Description: "Boardroom table for up to twelve people with a boat-shaped top that gives every participant a clear line of sight. Built-in power modules.",
	},
	"WS-4 Cluster.jpg": {
		Name:        "4-Person Workstation Cluster WS-4",
		Description: "Open plan cluster of four desks with shared central screens and cable spine. Ideal for team seating.",
	},
	"Swivel Task Chair (Black).jpg": {
		Name:        "Swivel Task Chair, Black",
		Description: "Everyday task chair with gas lift, tilt lock and black fabric upholstery.",
	},
	"Reception Bench.jpg": {
		Name:        "Modular Reception Bench",
		Description: "Beam-mounted reception seating with three upholstered seats and an optional side table.",
	},
}

// lookupOverride возвращает курированную запись для файла, если она есть
func lookupOverride(filename string) (Override, bool) {
	o, ok := overrides[filename]
	return o, ok
}
