package session

// ExportGuide explains how to obtain a session file
const ExportGuide = `A session file is a cookie export from a browser logged in to Instagram.

Two formats are accepted:
  - cookies.txt (Netscape format), as written by most "export cookies" extensions
  - a JSON object of cookie names to values, e.g. {"sessionid": "...", "csrftoken": "..."}

The export must contain the sessionid cookie. To copy it by hand:
  1. Log in at https://www.instagram.com
  2. Open the developer tools (F12) and go to Application > Cookies (Storage in Firefox)
  3. Copy the value of "sessionid"
  4. Run "igfetch session import <username>" and paste it at the prompt

Treat the file like a password: anyone holding it can act as you.`
