package ephem

// Planetary elements are the JPL "approximate positions of the planets"
// fit for 1800-2050 AD (Standish). Earth is the Earth-Moon barycenter.
var planetTable = []struct {
	id, name string
	el       OrbitalElements
}{
	{"mercury", "Mercury", FromDegrees(
		0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593,
		0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081)},
	{"venus", "Venus", FromDegrees(
		0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255,
		0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418)},
	{"earth", "Earth", FromDegrees(
		1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0.0,
		0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0.0)},
	{"mars", "Mars", FromDegrees(
		1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891,
		0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343)},
	{"jupiter", "Jupiter", FromDegrees(
		5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909,
		-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106)},
	{"saturn", "Saturn", FromDegrees(
		9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448,
		-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794)},
	{"uranus", "Uranus", FromDegrees(
		19.18916464, 0.04725744, 0.77263783, 313.23810451, 170.95427630, 74.01692503,
		-0.00196176, -0.00004397, -0.00242939, 428.48202785, 0.40805281, 0.04240589)},
	{"neptune", "Neptune", FromDegrees(
		30.06992276, 0.00859048, 1.77004347, -55.12002969, 44.96476227, 131.78422574,
		0.00026291, 0.00005105, 0.00035372, 218.45945325, -0.32241464, -0.00508664)},
}

var moonTable = []struct {
	id, name string
	theory   MoonTheory
}{
	{"moon", "Moon", earthMoon()},
	{"phobos", "Phobos", circularMoon("mars", 9376, 0.31891, 35, 0.0151, 1.093)},
	{"deimos", "Deimos", circularMoon("mars", 23463, 1.26244, 210, 0.00033, 0.93)},
	{"io", "Io", circularMoon("jupiter", 421700, 1.769138, 0, 0.0041, 0.05)},
	{"europa", "Europa", circularMoon("jupiter", 671034, 3.551181, 90, 0.009, 0.47)},
	{"ganymede", "Ganymede", circularMoon("jupiter", 1070412, 7.154553, 180, 0.0013, 0.2)},
	{"callisto", "Callisto", circularMoon("jupiter", 1882709, 16.689018, 270, 0.0074, 0.192)},
	{"titan", "Titan", circularMoon("saturn", 1221870, 15.945, 120, 0.0288, 0.348)},
}

// DefaultRegistry returns the eight planets and their major moons.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range planetTable {
		if err := r.AddPlanet(p.id, p.name, p.el); err != nil {
			panic(err)
		}
	}
	for _, m := range moonTable {
		if err := r.AddMoon(m.id, m.name, m.theory); err != nil {
			panic(err)
		}
	}
	return r
}
