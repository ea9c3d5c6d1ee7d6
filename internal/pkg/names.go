package pkg

// DefaultNames are the room name seeds: people who played, studied or built games.
var DefaultNames = []string{
	"Ada Lovelace",
	"Alan Turing",
	"Émile Borel",
	"John von Neumann",
	"Claude Shannon",
	"Emanuel Lasker",
	"José Raúl Capablanca",
	"Mikhail Tal",
	"Judit Polgár",
	"Vera Menchik",
	"Paul Erdős",
	"Kurt Gödel",
	"Émilie du Châtelet",
	"Sofia Kovalevskaya",
	"Grace Hopper",
	"Hedy Lamarr",
	"Édouard Lucas",
	"Martin Gardner",
	"John Conway",
	"Donald Knuth",
	"Elwyn Berlekamp",
	"Richard Guy",
	"Zermelo",
	"Nash",
	"Ramanujan",
	"Noether",
	"Hypatia",
	"Fibonacci",
	"Al-Khwārizmī",
	"Brahmagupta",
	"Ibn al-Haytham",
	"Nikola Tesla",
	"Marie Curie",
	"Lise Meitner",
	"Chien-Shiung Wu",
	"Katherine Johnson",
	"Dorothy Vaughan",
	"Margaret Hamilton",
	"Barbara Liskov",
	"Frances Allen",
	"Edsger Dijkstra",
	"Tony Hoare",
	"Niklaus Wirth",
	"Ken Thompson",
	"Dennis Ritchie",
	"Rob Pike",
	"Robert Griesemer",
	"Bjarne Stroustrup",
	"Guido van Rossum",
	"Yukihiro Matsumoto",
	"Anders Hejlsberg",
	"Alexey Pajitnov",
	"Shigeru Miyamoto",
	"Gunpei Yokoi",
	"Nolan Bushnell",
	"Ralph Baer",
	"Roberta Williams",
	"Sid Meier",
	"Will Wright",
	"Hideo Kojima",
	"Satoru Iwata",
	"Carol Shaw",
	"Dani Bunten Berry",
	"Brenda Romero",
}
