package constant

// AsciiArtLogo is the application's banner shown above the root help.
const AsciiArtLogo = `
  ___ _ __   __ _ _ __ | | _(_) |_
 / __| '_ \ / _' | '_ \| |/ / | __|
 \__ \ | | | (_| | |_) |   <| | |_
 |___/_| |_|\__,_| .__/|_|\_\_|\__|
                 |_|`
