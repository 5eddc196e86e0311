package maze

// DefaultText is the 4x4 maze loaded when no other maze is given.
const DefaultText = `+---+---+---+---+
|               |
+   +---+---+   +
|   |       |   |
+   +   +   +   +
|   |   |       |
+   +   +---+   +
|   |       |   |
+---+---+---+---+`
