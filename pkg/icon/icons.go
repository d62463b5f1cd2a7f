package icon

// Thermometer is drawn left of the temperature and humidity labels.
var Thermometer = MustParse(
	"......####......",
	".....#....#.....",
	"....#......#....",
	"....#..##..#.##.",
	"....#..##..#....",
	"....#..##..#.#..",
	"....#..##..#....",
	"....#..##..#.##.",
	"....#..##..#....",
	"....#..##..#.#..",
	"....#..##..#....",
	"....#..##..#.##.",
	"....#..##..#....",
	"....#..##..#.#..",
	"....#..##..#....",
	"....#..##..#.##.",
	"....#..##..#....",
	"....#..##..#.#..",
	"....#..##..#....",
	"....#..##..#....",
	"....#..##..#....",
	"...#...##...#...",
	"..#..######..#..",
	".#..########..#.",
	".#.##########.#.",
	".#.##########.#.",
	".#.##########.#.",
	".#..########..#.",
	"..#..######..#..",
	"...#........#...",
	"....########....",
	"................",
)

// FullBattery sits in the top right corner above the battery percentage.
var FullBattery = MustParse(
	"..........................",
	".######################...",
	".#....................#...",
	".#.##################.#...",
	".#.##################.###.",
	".#.##################.#.#.",
	".#.##################.#.#.",
	".#.##################.#.#.",
	".#.##################.#.#.",
	".#.##################.###.",
	".#.##################.#...",
	".#....................#...",
	".######################...",
	"..........................",
)
